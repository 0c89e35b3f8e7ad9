package model

import (
	"github.com/deppfellow/baliblissed-backend/internal/validation"
)

// ContactInquiryPayload is the body of POST /api/handle-contact-inquiry.
type ContactInquiryPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ContactInquiryRequest is a validated contact form submission.
//
// The message keeps quote characters; name does not.
type ContactInquiryRequest struct {
	name    string
	email   string
	message string
}

// NewContactInquiryRequest sanitizes and validates p.
func NewContactInquiryRequest(p ContactInquiryPayload) (ContactInquiryRequest, error) {
	var fieldErrors validation.Errors

	name, fe := validation.Name(p.Name)
	fieldErrors.Add(fe)

	email, fe := validation.Email(p.Email)
	fieldErrors.Add(fe)

	message, fe := validation.Message(p.Message)
	fieldErrors.Add(fe)

	if err := fieldErrors.Err(); err != nil {
		return ContactInquiryRequest{}, err
	}

	return ContactInquiryRequest{
		name:    name,
		email:   email,
		message: message,
	}, nil
}

func (r ContactInquiryRequest) Name() string    { return r.name }
func (r ContactInquiryRequest) Email() string   { return r.email }
func (r ContactInquiryRequest) Message() string { return r.message }

// ContactAnalysis is the analysis of a contact inquiry.
type ContactAnalysis struct {
	Summary        string `json:"summary"`
	Category       string `json:"category"`
	SuggestedReply string `json:"suggested_reply"`
}

// ContactAnalysisResponse is returned by POST /api/handle-contact-inquiry.
type ContactAnalysisResponse struct {
	Analysis ContactAnalysis `json:"analysis"`
}
