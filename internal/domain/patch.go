package domain

// RecordPatch carries the fields a submission may set on an invoice record.
// The invoice number is the upsert key and always present; every other field
// is optional, and a nil field leaves the stored value untouched on update.
// ID, createdAt and status are not reachable through a patch.
type RecordPatch struct {
	InvoiceNumber  string
	CompanyName    *string
	CompanyAddress *string
	CompanyEmail   *string
	CompanyPhone   *string
	CompanyLogo    *string
	ClientName     *string
	ClientAddress  *string
	ClientEmail    *string
	InvoiceDate    *string
	DueDate        *string
	PaymentMethod  *PaymentMethod
	Notes          *string
	Signature      *string
	Items          []LineItem
}

// Apply merges the patch into the record field by field. Items are filtered
// to billable ones, matching what a form submission persists.
func (p *RecordPatch) Apply(r *InvoiceRecord) {
	r.InvoiceNumber = p.InvoiceNumber
	if p.CompanyName != nil {
		r.CompanyName = *p.CompanyName
	}
	if p.CompanyAddress != nil {
		r.CompanyAddress = *p.CompanyAddress
	}
	if p.CompanyEmail != nil {
		r.CompanyEmail = *p.CompanyEmail
	}
	if p.CompanyPhone != nil {
		r.CompanyPhone = *p.CompanyPhone
	}
	if p.CompanyLogo != nil {
		r.CompanyLogo = *p.CompanyLogo
	}
	if p.ClientName != nil {
		r.ClientName = *p.ClientName
	}
	if p.ClientAddress != nil {
		r.ClientAddress = *p.ClientAddress
	}
	if p.ClientEmail != nil {
		r.ClientEmail = *p.ClientEmail
	}
	if p.InvoiceDate != nil {
		r.InvoiceDate = *p.InvoiceDate
	}
	if p.DueDate != nil {
		r.DueDate = *p.DueDate
	}
	if p.PaymentMethod != nil {
		r.PaymentMethod = *p.PaymentMethod
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
	if p.Signature != nil {
		r.Signature = *p.Signature
	}
	if p.Items != nil {
		kept := make([]LineItem, 0, len(p.Items))
		for _, item := range p.Items {
			if !item.Billable() {
				continue
			}
			item.Total = item.Amount()
			kept = append(kept, item)
		}
		r.Items = kept
	}
}
