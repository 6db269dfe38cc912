package types

type (
	// Metadata describes a wizard as declared in its metadata.yaml.
	Metadata struct {
		Name          string `yaml:"name" json:"name"`
		MenuEntry     string `yaml:"menu_entry" json:"menuEntry"`
		DefaultEnv    string `yaml:"default_env" json:"defaultEnv"`
		UseVR         *bool  `yaml:"use_vr,omitempty" json:"useVr,omitempty"`
		PythonVersion string `yaml:"python_version" json:"pythonVersion"`
		PyMOLVersion  string `yaml:"pymol_version" json:"pymolVersion"`
		OpenVRVersion string `yaml:"openvr_version" json:"openvrVersion"`
		PreScript     string `yaml:"pre_script" json:"preScript,omitempty"`
		PostScript    string `yaml:"post_script" json:"postScript,omitempty"`
	}

	// MetadataValidationResult contains the result of metadata validation.
	MetadataValidationResult struct {
		IsValid  bool     `json:"isValid"`
		Errors   []string `json:"errors"`
		Warnings []string `json:"warnings"`
	}
)

// WantsVR reports whether the wizard registers itself in the VR menu.
// Missing use_vr means yes.
func (m Metadata) WantsVR() bool {
	return m.UseVR == nil || *m.UseVR
}
