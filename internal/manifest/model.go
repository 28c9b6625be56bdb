package manifest

// Manifest is the root of the declarative service description. It is created
// fresh from a file read at the start of every command and never persisted.
type Manifest struct {
	Service             string                          `yaml:"service"`
	Owner               string                          `yaml:"owner,omitempty"`
	ComplianceFramework string                          `yaml:"complianceFramework,omitempty"`
	Environment         string                          `yaml:"environment,omitempty"`
	Region              string                          `yaml:"region,omitempty"`
	AccountID           string                          `yaml:"accountId,omitempty"`
	Components          []*ComponentSpec                `yaml:"components"`
	Environments        map[string]*EnvironmentDefaults `yaml:"environments,omitempty"`
	Tags                map[string]string               `yaml:"tags,omitempty"`
	Labels              map[string]string               `yaml:"labels,omitempty"`
	Governance          *Governance                     `yaml:"governance,omitempty"`
}

// ComponentSpec is one named, typed unit of configuration within a Manifest.
type ComponentSpec struct {
	Name   string         `yaml:"name"`
	Type   string         `yaml:"type"`
	Config map[string]any `yaml:"config,omitempty"`
	Binds  []*Binding     `yaml:"binds,omitempty"`
}

// Binding declares a dependency from the enclosing component to another
// component's capability.
type Binding struct {
	To         string            `yaml:"to"`
	Capability string            `yaml:"capability"`
	Access     string            `yaml:"access,omitempty"`
	Env        map[string]string `yaml:"env,omitempty"`
}

// EnvironmentDefaults holds the interpolation defaults for one named
// environment. It is consumed during hydration and discarded afterwards.
type EnvironmentDefaults struct {
	Defaults map[string]any `yaml:"defaults,omitempty"`
}

// Governance carries compliance tooling metadata.
type Governance struct {
	CDKNag *CDKNag `yaml:"cdkNag,omitempty"`
}

// CDKNag holds the list of governance rule suppressions.
type CDKNag struct {
	Suppress []*Suppression `yaml:"suppress,omitempty"`
}

// Suppression records one suppressed governance rule. All four fields are
// mandatory; the reference validator enforces that.
type Suppression struct {
	ID            string `yaml:"id"`
	Justification string `yaml:"justification"`
	Owner         string `yaml:"owner"`
	ExpiresOn     string `yaml:"expiresOn"`
}

// Component returns the component with the given name, or nil.
func (m *Manifest) Component(name string) *ComponentSpec {
	for _, c := range m.Components {
		if c != nil && c.Name == name {
			return c
		}
	}
	return nil
}

// Suppressions returns the governance suppression list, or nil when the
// manifest carries no governance block.
func (m *Manifest) Suppressions() []*Suppression {
	if m.Governance == nil || m.Governance.CDKNag == nil {
		return nil
	}
	return m.Governance.CDKNag.Suppress
}

// DeepCopy returns a fully independent copy of the manifest. The hydrator
// relies on this to keep plan idempotent across repeated calls.
func (m *Manifest) DeepCopy() *Manifest {
	out := &Manifest{
		Service:             m.Service,
		Owner:               m.Owner,
		ComplianceFramework: m.ComplianceFramework,
		Environment:         m.Environment,
		Region:              m.Region,
		AccountID:           m.AccountID,
		Tags:                copyStringMap(m.Tags),
		Labels:              copyStringMap(m.Labels),
	}
	for _, c := range m.Components {
		out.Components = append(out.Components, c.deepCopy())
	}
	if m.Environments != nil {
		out.Environments = make(map[string]*EnvironmentDefaults, len(m.Environments))
		for name, env := range m.Environments {
			copied := &EnvironmentDefaults{}
			if env != nil {
				copied.Defaults, _ = CopyValue(env.Defaults).(map[string]any)
			}
			out.Environments[name] = copied
		}
	}
	if m.Governance != nil {
		g := &Governance{}
		if m.Governance.CDKNag != nil {
			nag := &CDKNag{}
			for _, s := range m.Governance.CDKNag.Suppress {
				if s == nil {
					nag.Suppress = append(nag.Suppress, nil)
					continue
				}
				copied := *s
				nag.Suppress = append(nag.Suppress, &copied)
			}
			g.CDKNag = nag
		}
		out.Governance = g
	}
	return out
}

func (c *ComponentSpec) deepCopy() *ComponentSpec {
	if c == nil {
		return nil
	}
	out := &ComponentSpec{Name: c.Name, Type: c.Type}
	out.Config, _ = CopyValue(c.Config).(map[string]any)
	for _, b := range c.Binds {
		if b == nil {
			out.Binds = append(out.Binds, nil)
			continue
		}
		copied := &Binding{To: b.To, Capability: b.Capability, Access: b.Access, Env: copyStringMap(b.Env)}
		out.Binds = append(out.Binds, copied)
	}
	return out
}

// CopyValue deep-copies an untyped configuration value: maps and slices are
// cloned recursively, scalars returned as-is.
func CopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		if val == nil {
			return map[string]any(nil)
		}
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = CopyValue(elem)
		}
		return out
	case []any:
		if val == nil {
			return []any(nil)
		}
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = CopyValue(elem)
		}
		return out
	default:
		return v
	}
}

func copyStringMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
