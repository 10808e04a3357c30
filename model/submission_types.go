package model

const (
	SubmissionSent   = "sent"
	SubmissionFailed = "failed"
)

// Submission is one journaled save attempt.
type Submission struct {
	ID           string `db:"id" json:"id"`
	CreatedAt    string `db:"created_at" json:"createdAt"`
	CompanyName  string `db:"company_name" json:"companyName"`
	CustomerCode string `db:"customer_code" json:"customerCode"`
	ItemCount    int    `db:"item_count" json:"itemCount"`
	TotalQty     int    `db:"total_qty" json:"totalQty"`
	Status       string `db:"status" json:"status"`
	HTTPStatus   int    `db:"http_status" json:"httpStatus"`
	ErrorMessage string `db:"error_message" json:"errorMessage"`
	Payload      string `db:"payload" json:"-"`
}
