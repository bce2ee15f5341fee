package a2a

// Role identifies the originator of a Message.
type Role int32

const (
	RoleUnspecified Role = 0
	RoleUser        Role = 1
	RoleAgent       Role = 2
)

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAgent:
		return "agent"
	default:
		return ""
	}
}

// MarshalJSON renders the role lowercase, omitting unspecified per the
// textual wire rules (callers typically guard with omitempty on the field,
// but an explicit zero value still marshals to an empty string rather than
// "unspecified").
func (r Role) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.String() + `"`), nil
}

func (r *Role) UnmarshalJSON(data []byte) error {
	s := string(data)
	s = trimQuotes(s)

	switch s {
	case "user":
		*r = RoleUser
	case "agent":
		*r = RoleAgent
	default:
		*r = RoleUnspecified
	}

	return nil
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
