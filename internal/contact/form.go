package contact

// Field names one of the three contact form inputs.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldMessage Field = "message"
)

// Fields lists the form inputs in display order.
var Fields = []Field{FieldName, FieldEmail, FieldMessage}

// Form holds the raw values typed by the visitor.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Get returns the value for field.
func (f Form) Get(field Field) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldEmail:
		return f.Email
	case FieldMessage:
		return f.Message
	}
	return ""
}

// Set stores value for field. Unknown fields are ignored.
func (f *Form) Set(field Field, value string) {
	switch field {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldMessage:
		f.Message = value
	}
}

// Errors maps each field to its validation message; "" means valid.
type Errors struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Message string `json:"message,omitempty"`
}

// Any reports whether at least one field failed validation.
func (e Errors) Any() bool {
	return e.Name != "" || e.Email != "" || e.Message != ""
}

// Get returns the message for field.
func (e Errors) Get(field Field) string {
	switch field {
	case FieldName:
		return e.Name
	case FieldEmail:
		return e.Email
	case FieldMessage:
		return e.Message
	}
	return ""
}

// Set stores msg for field.
func (e *Errors) Set(field Field, msg string) {
	switch field {
	case FieldName:
		e.Name = msg
	case FieldEmail:
		e.Email = msg
	case FieldMessage:
		e.Message = msg
	}
}

// ValidateField runs the validator that belongs to field.
func ValidateField(field Field, value string) string {
	switch field {
	case FieldName:
		return ValidateName(value)
	case FieldEmail:
		return ValidateEmail(value)
	case FieldMessage:
		return ValidateMessage(value)
	}
	return ""
}

// ValidateAll re-runs every validator against the current values.
func ValidateAll(form Form) Errors {
	return Errors{
		Name:    ValidateName(form.Name),
		Email:   ValidateEmail(form.Email),
		Message: ValidateMessage(form.Message),
	}
}
