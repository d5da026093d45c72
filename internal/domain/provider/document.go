package provider

import (
	"time"

	"github.com/opsconsole/backend/internal/domain/shared"
)

// DocumentType tags a provider document by purpose
type DocumentType string

const (
	DocumentTypeContract    DocumentType = "contract"
	DocumentTypeInvoice     DocumentType = "invoice"
	DocumentTypeCertificate DocumentType = "certificate"
	DocumentTypeOther       DocumentType = "other"
)

// IsValid checks if the type is a valid DocumentType
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeContract, DocumentTypeInvoice, DocumentTypeCertificate, DocumentTypeOther:
		return true
	}
	return false
}

// Document is a named file reference attached to a provider.
// Documents have no status machine; they are uploaded and deleted only.
type Document struct {
	ID         shared.Identity `json:"id"`
	ProviderID string          `json:"providerId"`
	Name       string          `json:"name"`
	Type       DocumentType    `json:"type"`
	URL        string          `json:"url,omitempty"`
	UploadedAt time.Time       `json:"uploadedAt"`
}

// NewDocument creates a provisional document with a pending identity
func NewDocument(providerID, name string, docType DocumentType) (*Document, error) {
	if providerID == "" {
		return nil, shared.NewDomainError("INVALID_PROVIDER", "Provider id cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Document name cannot be empty")
	}
	if !docType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Invalid document type")
	}

	return &Document{
		ID:         shared.NewPendingIdentity(),
		ProviderID: providerID,
		Name:       name,
		Type:       docType,
		UploadedAt: time.Now(),
	}, nil
}

// Identity returns the record identity
func (d *Document) Identity() shared.Identity {
	return d.ID
}
