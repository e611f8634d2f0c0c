package domain

import "time"

// Inquiry types the contact form offers.
const (
	InquiryGeneral   = "general"
	InquiryOrder     = "order"
	InquiryWholesale = "wholesale"
	InquiryPress     = "press"
	InquiryFeedback  = "feedback"
)

// InquiryTypes lists the accepted inquiry type codes.
var InquiryTypes = []string{
	InquiryGeneral,
	InquiryOrder,
	InquiryWholesale,
	InquiryPress,
	InquiryFeedback,
}

// Departments the form can route an inquiry to.
var Departments = []string{
	"customer-care",
	"sales",
	"corporate",
}

// Contact inquiry statuses as the back office works through the inbox.
const (
	InquiryStatusNew      = "new"
	InquiryStatusOpen     = "open"
	InquiryStatusResolved = "resolved"
)

// ContactInquiry is a durable contact-form submission. Reference is the
// shopper-facing ticket number (VM-<ULID>).
type ContactInquiry struct {
	ID             string              `json:"id"`
	Reference      string              `json:"reference"`
	Name           string              `json:"name"`
	Email          string              `json:"email"`
	Phone          string              `json:"phone,omitempty"`
	Subject        string              `json:"subject"`
	Message        string              `json:"message"`
	InquiryType    string              `json:"inquiry_type"`
	Department     string              `json:"department"`
	OrderReference string              `json:"order_reference,omitempty"`
	Status         string              `json:"status"`
	Attachments    []ContactAttachment `json:"attachments,omitempty"`
	ReceivedAt     time.Time           `json:"received_at"`
}

// ContactAttachment is a file uploaded with an inquiry. Key addresses the
// blob in storage; it is not a public URL.
type ContactAttachment struct {
	ID          string    `json:"id"`
	InquiryID   string    `json:"inquiry_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Key         string    `json:"key"`
	CreatedAt   time.Time `json:"created_at"`
}

// ValidInquiryType reports whether the given code is an accepted inquiry type.
func ValidInquiryType(code string) bool {
	for _, t := range InquiryTypes {
		if t == code {
			return true
		}
	}
	return false
}

// ValidDepartment reports whether the given code is a known department.
func ValidDepartment(code string) bool {
	for _, d := range Departments {
		if d == code {
			return true
		}
	}
	return false
}
