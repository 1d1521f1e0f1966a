package types

type Config interface {
	Validate() error
	PostProcess() error
}

// Password hides its value when the settings are printed.
type Password string

func (p Password) MarshalJSON() ([]byte, error) {
	if p == "" {
		return []byte(`""`), nil
	}
	return []byte(`"******"`), nil
}
