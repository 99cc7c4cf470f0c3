package schema

import "encoding/json"

// paramJSON is the wire description of a parameter, as served to hosts.
type paramJSON struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name,omitempty"`
	Description string   `json:"description,omitempty"`
	Kind        Kind     `json:"kind"`
	Constraint  string   `json:"constraint"`
	Default     any      `json:"default,omitempty"`
	Options     []string `json:"options,omitempty"`
}

// MarshalJSON serializes the parameter with its self-described constraint.
func (p Param) MarshalJSON() ([]byte, error) {
	out := paramJSON{
		Name:        p.Name,
		DisplayName: p.DisplayName,
		Description: p.Description,
		Default:     p.Default,
	}
	if p.Type != nil {
		out.Kind = p.Type.Kind()
		out.Constraint = p.Type.Describe()
		if sel, ok := p.Type.(*SelectType); ok {
			out.Options = sel.Options
		}
	}
	return json.Marshal(out)
}
