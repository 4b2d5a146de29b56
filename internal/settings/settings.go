// Package settings holds the operator-tunable thresholds shared by the
// webhook pipeline and the opportunity evaluator.
package settings

// Name identifies one tunable parameter.
type Name string

const (
	Slippage    Name = "slippage"
	Bet         Name = "bet"
	MinSwap     Name = "min_swap"
	MinProfit   Name = "min_profit"
	PriorityFee Name = "priority_fee"
)

// Spec describes a setting for display in the control surface.
type Spec struct {
	Name   Name
	Label  string // button label
	Unit   string // "%", "SOL" or "$"
	Prompt string // question asked when editing
}

var specs = []Spec{
	{Name: Slippage, Label: "Max slippage", Unit: "%", Prompt: "Enter the new max slippage (%):"},
	{Name: Bet, Label: "Fixed bet", Unit: "SOL", Prompt: "Enter the new fixed bet (SOL):"},
	{Name: MinSwap, Label: "Min swap", Unit: "SOL", Prompt: "Enter the minimum watched swap amount (SOL):"},
	{Name: MinProfit, Label: "Min profit", Unit: "$", Prompt: "Enter the minimum net profit ($):"},
	{Name: PriorityFee, Label: "Priority fee", Unit: "SOL", Prompt: "Enter the new priority fee (SOL):"},
}

// Specs returns all settings in display order.
func Specs() []Spec {
	out := make([]Spec, len(specs))
	copy(out, specs)
	return out
}

// Lookup resolves a raw setting name. Callers at the control-surface
// boundary use it to reject unknown names before touching the Store.
func Lookup(raw string) (Spec, bool) {
	for _, s := range specs {
		if string(s.Name) == raw {
			return s, true
		}
	}
	return Spec{}, false
}

// Values is a full set of setting values.
type Values struct {
	Slippage    float64 // max slippage (%)
	Bet         float64 // fixed bet size (SOL)
	MinSwap     float64 // minimum swap amount (SOL)
	MinProfit   float64 // minimum net profit ($)
	PriorityFee float64 // priority fee (SOL)
}

// DefaultValues returns the built-in defaults.
func DefaultValues() Values {
	return Values{
		Slippage:    4,
		Bet:         0.2,
		MinSwap:     0.4,
		MinProfit:   5,
		PriorityFee: 0.0005,
	}
}

// Get returns the value for name. Panics on an unknown name.
func (v Values) Get(name Name) float64 {
	return *v.field(name)
}

func (v *Values) field(name Name) *float64 {
	switch name {
	case Slippage:
		return &v.Slippage
	case Bet:
		return &v.Bet
	case MinSwap:
		return &v.MinSwap
	case MinProfit:
		return &v.MinProfit
	case PriorityFee:
		return &v.PriorityFee
	}
	panic("settings: unknown setting " + string(name))
}
