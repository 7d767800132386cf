package types

// Scope is a unit of discovery locality: the whole account or one region.
// Created once at run start by the region enumerator, never mutated.
type Scope struct {
	Region string `json:"region,omitempty"`
	Global bool   `json:"global,omitempty"`
}

// GlobalScope returns the single account-wide scope.
func GlobalScope() Scope {
	return Scope{Global: true}
}

// RegionalScope returns a scope bound to one region.
func RegionalScope(region string) Scope {
	return Scope{Region: region}
}

// IsGlobal reports whether this scope covers the whole account.
func (s Scope) IsGlobal() bool {
	return s.Global
}

func (s Scope) String() string {
	if s.Global {
		return "global"
	}
	return s.Region
}
