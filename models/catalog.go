package models

// ChildTreatment is a named option under a treatment; its duration hint is
// embedded in the display name (e.g. "File & Polish - 20 mins").
type ChildTreatment struct {
	Name  string `mapstructure:"name" json:"name"`
	Price string `mapstructure:"price" json:"price"`
}

// Treatment is a single catalog entry. Entries either carry an explicit
// time/price pair or fan out into child options.
type Treatment struct {
	Name     string           `mapstructure:"name" json:"name"`
	Time     string           `mapstructure:"time" json:"time,omitempty"`
	Price    string           `mapstructure:"price" json:"price,omitempty"`
	Children []ChildTreatment `mapstructure:"children" json:"children,omitempty"`
}

// TreatmentSection groups treatments under a display title.
type TreatmentSection struct {
	Title      string      `mapstructure:"title" json:"title"`
	Treatments []Treatment `mapstructure:"treatments" json:"treatments"`
}
