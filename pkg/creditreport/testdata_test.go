package creditreport

import "time"

var asOf = time.Date(2024, time.October, 15, 0, 0, 0, 0, time.UTC)

const sampleReport = `Personal Credit Report
Prepared for JOHN Q SAMPLE
Report date 10/15/2024
* CAPITAL ONE / 1270246 / BC - Bank Credit Cards
Account #: 5178XXXX
Account Type: Credit Card
Account Condition: Open
Payment Status: Current
Responsibility: Individual
Months Reviewed: 48
Credit
Limit
$5,000
High Balance $1,234
Open Date 03/2019
Status
Date
10/2024
MIDLAND FUNDING / 8876 / FC - Finance Company
Account #: 88761234
Account Type: Collection
Account Condition: Closed
Payment Status: Unpaid balance reported as loss
Responsibility: Individual
Original
Amount
$2,400
Status
Date
05/2020
MEDICAL PAYMENT DATA / 991 / ZZ - Collection Agency
Account Type: Medical Collection
Account Condition: Open
Payment Status: Seriously past due
Responsibility: Individual
WELLS FARGO HOME / 4422 / FM - Mortgage Companies
Account #: 4422001
Account Type: Conventional real estate loan
Account Condition: Open
Payment Status: Current
Responsibility: Joint Account
Original
Amount
$250,000
Status
Date
09/2024
* DISCOVER / 6011 / BC - Bank Credit Cards
Account Type: Credit Card
Account Condition: Open
Payment Status: Current/was 60 days past due
Responsibility: Individual
Months Reviewed: 30
Credit Limit $3,500
* TOYOTA MOTOR CREDIT / 5521 / AF - Auto Financing
Account Type: Auto Loan
Account Condition: Open
Payment Status: Current
Responsibility: Individual
Months Reviewed: 24
Original Amount $28,000
`
