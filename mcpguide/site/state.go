package site

import (
	"net/url"
	"strconv"
)

// Section identifies one tab of the page.
type Section int

const (
	WhatIsMCP Section = iota
	WhereYouUseIt
	SetupFlow
	Credentials
	RealExamples
	ServersDirectory
	TwoFlows
)

var allSections = []Section{WhatIsMCP, WhereYouUseIt, SetupFlow, Credentials, RealExamples, ServersDirectory, TwoFlows}

var sectionSlugs = map[Section]string{
	WhatIsMCP:        "what-is-mcp",
	WhereYouUseIt:    "where-you-use-it",
	SetupFlow:        "setup-flow",
	Credentials:      "credentials",
	RealExamples:     "real-examples",
	ServersDirectory: "servers-directory",
	TwoFlows:         "two-flows",
}

// Sections lists every section in tab order.
func Sections() []Section {
	return append([]Section(nil), allSections...)
}

func (s Section) Valid() bool {
	_, ok := sectionSlugs[s]
	return ok
}

func (s Section) Slug() string {
	return sectionSlugs[s]
}

func (s Section) String() string {
	if !s.Valid() {
		return "Section(" + strconv.Itoa(int(s)) + ")"
	}
	return s.Slug()
}

// ParseSection maps a slug back to its section.
func ParseSection(slug string) (Section, bool) {
	for s, v := range sectionSlugs {
		if v == slug {
			return s, true
		}
	}
	return WhatIsMCP, false
}

// State is the page's UI selection state. It round-trips through the query
// string so every interaction is a plain link.
type State struct {
	Section  Section
	Example  int    // selected example index, -1 for none
	Client   string // selected client id, "" for none
	DemoOpen bool
	DemoStep int
}

// DefaultState is the first-visit state.
func DefaultState() State {
	return State{Section: WhatIsMCP, Example: -1}
}

// ParseState reads state from query values. Anything unknown or out of range
// falls back to the default for that field, so a stale link never errors.
func ParseState(q url.Values, c *Catalog) State {
	st := DefaultState()
	if s, ok := ParseSection(q.Get("section")); ok {
		st.Section = s
	}
	if v, err := strconv.Atoi(q.Get("example")); err == nil && v >= 0 && v < len(c.Examples) {
		st.Example = v
	}
	if id := q.Get("client"); id != "" && c.hasClient(id) {
		st.Client = id
	}
	if q.Get("demo") == "1" {
		st.DemoOpen = true
		if v, err := strconv.Atoi(q.Get("step")); err == nil {
			st.DemoStep = clamp(v, 0, len(c.Demo.Steps)-1)
		}
	}
	return st
}

// Query encodes the state, omitting fields at their default.
func (st State) Query() url.Values {
	q := url.Values{}
	if st.Section != WhatIsMCP {
		q.Set("section", st.Section.Slug())
	}
	if st.Example >= 0 {
		q.Set("example", strconv.Itoa(st.Example))
	}
	if st.Client != "" {
		q.Set("client", st.Client)
	}
	if st.DemoOpen {
		q.Set("demo", "1")
		if st.DemoStep > 0 {
			q.Set("step", strconv.Itoa(st.DemoStep))
		}
	}
	return q
}

// URL is the page link for this state.
func (st State) URL() string {
	if q := st.Query().Encode(); q != "" {
		return "/?" + q
	}
	return "/"
}

// SelectSection switches tabs. Other selections are kept.
func (st State) SelectSection(s Section) State {
	if s.Valid() {
		st.Section = s
	}
	return st
}

// StartTour is the hero call to action: it jumps to where readers meet MCP.
func (st State) StartTour() State {
	return st.SelectSection(WhereYouUseIt)
}

// ToggleExample expands example i, or collapses it when it is already expanded.
func (st State) ToggleExample(i int) State {
	if st.Example == i {
		st.Example = -1
	} else {
		st.Example = i
	}
	return st
}

// ToggleClient selects a client, or clears it when it is already selected.
func (st State) ToggleClient(id string) State {
	if st.Client == id {
		st.Client = ""
	} else {
		st.Client = id
	}
	return st
}

func (st State) OpenDemo() State {
	st.DemoOpen = true
	st.DemoStep = 0
	return st
}

// AdvanceDemo moves to the next step, stopping at the last one.
func (st State) AdvanceDemo(steps int) State {
	if st.DemoOpen && st.DemoStep < steps-1 {
		st.DemoStep++
	}
	return st
}

// CloseDemo hides the modal and resets its step counter.
func (st State) CloseDemo() State {
	st.DemoOpen = false
	st.DemoStep = 0
	return st
}

func (c *Catalog) hasClient(id string) bool {
	for _, cl := range c.Clients {
		if cl.ID == id {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
