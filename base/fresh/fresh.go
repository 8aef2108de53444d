package fresh

import (
	"app/base"
	"time"
)

// Requester as returned by the Freshservice v2 API. Freshservice omits
// fields freely, everything but the ID is a pointer.
type Requester struct {
	ID              int64     `json:"id"`
	FirstName       *string   `json:"first_name,omitempty"`
	LastName        *string   `json:"last_name,omitempty"`
	PrimaryEmail    *string   `json:"primary_email,omitempty"`
	SecondaryEmails *[]string `json:"secondary_emails,omitempty"`
	ExternalID      *string   `json:"external_id,omitempty"`
	Active          *bool     `json:"active,omitempty"`
	LastLoginAt     *string   `json:"last_login_at,omitempty"`
	CreatedAt       *string   `json:"created_at,omitempty"`
	UpdatedAt       *string   `json:"updated_at,omitempty"`
}

func (o *Requester) GetPrimaryEmail() string {
	if o == nil || o.PrimaryEmail == nil {
		return ""
	}
	return *o.PrimaryEmail
}

func (o *Requester) GetSecondaryEmails() []string {
	if o == nil || o.SecondaryEmails == nil {
		var ret []string
		return ret
	}
	return *o.SecondaryEmails
}

func (o *Requester) GetExternalID() string {
	if o == nil || o.ExternalID == nil {
		return ""
	}
	return *o.ExternalID
}

func (o *Requester) GetActive() bool {
	if o == nil || o.Active == nil {
		return false
	}
	return *o.Active
}

// GetLastActivity returns the last login time, falling back to the account
// creation time for requesters who never logged in.
func (o *Requester) GetLastActivity() *time.Time {
	for _, str := range []*string{o.LastLoginAt, o.CreatedAt} {
		if str == nil || *str == "" {
			continue
		}
		t, err := base.ParseTime(*str)
		if err != nil {
			continue
		}
		return &t
	}
	return nil
}

// RequesterUpdate is the PUT /requesters/{id} request body. Only non-nil
// fields are sent, an empty non-nil slice clears secondary emails.
type RequesterUpdate struct {
	PrimaryEmail    *string   `json:"primary_email,omitempty"`
	SecondaryEmails *[]string `json:"secondary_emails,omitempty"`
	ExternalID      *string   `json:"external_id,omitempty"`
}

func (o *RequesterUpdate) SetPrimaryEmail(v string) {
	o.PrimaryEmail = &v
}

func (o *RequesterUpdate) SetSecondaryEmails(v []string) {
	o.SecondaryEmails = &v
}

func (o *RequesterUpdate) SetExternalID(v string) {
	o.ExternalID = &v
}

// RequesterResponse is the envelope of single-requester endpoints. The
// error fields arrive instead of the requester on non-2xx responses.
type RequesterResponse struct {
	Requester Requester `json:"requester"`
	// error body fields
	Message     string `json:"message,omitempty"`
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
}

type RequestersResponse struct {
	Requesters []Requester `json:"requesters"`
}
