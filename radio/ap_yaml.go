package radio

import "fmt"

// MarshalYAML renders AuthMode as its stable name rather than its raw
// integer value, so a persisted AccessPointRecord stays a self-describing
// tagged record (§6) instead of an opaque number.
func (a AuthMode) MarshalYAML() (interface{}, error) { return a.String(), nil }

// UnmarshalYAML parses the name produced by MarshalYAML.
func (a *AuthMode) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	for mode, name := range authModeNames {
		if name == s {
			*a = mode
			return nil
		}
	}
	return fmt.Errorf("radio: unknown auth mode %q", s)
}

// MarshalYAML renders CipherType as its stable name.
func (c CipherType) MarshalYAML() (interface{}, error) { return c.String(), nil }

// UnmarshalYAML parses the name produced by MarshalYAML.
func (c *CipherType) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	for typ, name := range cipherNames {
		if name == s {
			*c = typ
			return nil
		}
	}
	return fmt.Errorf("radio: unknown cipher type %q", s)
}
