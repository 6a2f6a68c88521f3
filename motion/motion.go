// Package motion describes entrance and scroll-linked transitions as data
// attributes. The embedded motion script reads the attributes and plays the
// transitions in the browser; nothing here runs client code.
package motion

import (
	"strconv"
	"strings"
)

// Trigger decides when an entrance transition starts.
type Trigger string

const (
	// OnLoad plays the transition as soon as the element is in the document.
	OnLoad Trigger = "load"
	// InView plays the transition the first time the element scrolls into view.
	InView Trigger = "view"
)

// Stagger is the delay step between consecutive list items.
const Stagger = 0.05

// Variant is one visual state of an element.
type Variant struct {
	Opacity float64
	Y       float64 // vertical offset in px
	Scale   float64
}

// Hidden is the usual starting state: transparent and pushed down.
var Hidden = Variant{Opacity: 0, Y: 100, Scale: 1}

// Shown is the resting state.
var Shown = Variant{Opacity: 1, Y: 0, Scale: 1}

func (v Variant) String() string {
	return "opacity:" + num(v.Opacity) + ";y:" + num(v.Y) + ";scale:" + num(v.Scale)
}

// Transition times are in seconds. A zero Duration lets the script use its default.
type Transition struct {
	Delay    float64
	Duration float64
}

// Range maps scroll progress [0,1] onto [From,To].
type Range struct {
	From, To float64
}

// At returns the value of r at progress p, clamped to the range ends.
func (r Range) At(p float64) float64 {
	return Interpolate(p, Range{0, 1}, r)
}

// Scroll links an element's scale and opacity to how far it has scrolled
// through the viewport. Progress is 0 when the element's top meets the
// viewport bottom and 1 when the point End heights down the element does.
type Scroll struct {
	Scale   Range
	Opacity Range
	End     float64
}

// Motion is a complete description of one animated element.
type Motion struct {
	Trigger    Trigger
	Initial    Variant
	Animate    Variant
	Transition Transition
	Scroll     *Scroll
}

// Attr is a single HTML attribute.
type Attr struct {
	Key, Value string
}

// Attrs returns the data attributes describing m in a stable order.
func (m Motion) Attrs() []Attr {
	if m.Scroll != nil {
		s := m.Scroll
		return []Attr{
			{"data-motion", "scroll"},
			{"data-motion-scale", num(s.Scale.From) + "," + num(s.Scale.To)},
			{"data-motion-opacity", num(s.Opacity.From) + "," + num(s.Opacity.To)},
			{"data-motion-end", num(s.End)},
		}
	}
	trigger := m.Trigger
	if trigger == "" {
		trigger = OnLoad
	}
	attrs := []Attr{
		{"data-motion", string(trigger)},
		{"data-motion-initial", m.Initial.String()},
		{"data-motion-animate", m.Animate.String()},
	}
	if m.Transition.Delay > 0 {
		attrs = append(attrs, Attr{"data-motion-delay", num(m.Transition.Delay)})
	}
	if m.Transition.Duration > 0 {
		attrs = append(attrs, Attr{"data-motion-duration", num(m.Transition.Duration)})
	}
	return attrs
}

// Style returns the inline style for the state an element is first painted
// in, so there is no flash before the script runs.
func (m Motion) Style() string {
	var v Variant
	if m.Scroll != nil {
		v = Variant{Opacity: m.Scroll.Opacity.At(0), Scale: m.Scroll.Scale.At(0)}
	} else {
		v = m.Initial
	}
	var b strings.Builder
	b.WriteString("opacity:" + num(v.Opacity))
	if v.Y != 0 || v.Scale != 1 {
		b.WriteString(";transform:translateY(" + num(v.Y) + "px) scale(" + num(v.Scale) + ")")
	}
	return b.String()
}

// Interpolate maps x from the input range onto the output range. Values of
// x outside the input range are clamped to its ends.
func Interpolate(x float64, in, out Range) float64 {
	if in.To == in.From {
		return out.From
	}
	p := (x - in.From) / (in.To - in.From)
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	return out.From + p*(out.To-out.From)
}

// FadeUp rises from Hidden to Shown once the element loads.
func FadeUp(delay float64) Motion {
	return Motion{Trigger: OnLoad, Initial: Hidden, Animate: Shown, Transition: Transition{Delay: delay}}
}

// FadeIn fades from transparent to opaque when the element scrolls into view.
func FadeIn(duration float64) Motion {
	return Motion{
		Trigger:    InView,
		Initial:    Variant{Opacity: 0, Scale: 1},
		Animate:    Shown,
		Transition: Transition{Duration: duration},
	}
}

// ListItem rises into view with a delay proportional to its index.
func ListItem(index int) Motion {
	return Motion{Trigger: InView, Initial: Hidden, Animate: Shown, Transition: Transition{Delay: StaggerDelay(index)}}
}

// StaggerDelay returns the entrance delay of the index-th list item.
func StaggerDelay(index int) float64 {
	if index < 0 {
		index = 0
	}
	// Round to avoid 0.15000000000000002 in attributes.
	d, _ := strconv.ParseFloat(strconv.FormatFloat(Stagger*float64(index), 'f', 4, 64), 64)
	return d
}

// ScrollScale grows and fades an element in as it scrolls through the viewport.
func ScrollScale() Motion {
	return Motion{Scroll: &Scroll{
		Scale:   Range{0.8, 1},
		Opacity: Range{0.6, 1},
		End:     1.22,
	}}
}

// Preset entrances of the portfolio's sections.
var (
	About   = FadeUp(0.175)
	Divider = FadeUp(0.125)
	Contact = FadeIn(1)
)

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
