package site

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSectionSlugsRoundTrip(t *testing.T) {
	for _, s := range Sections() {
		got, ok := ParseSection(s.Slug())
		assert.True(t, ok)
		assert.Equal(t, s, got)
	}
	_, ok := ParseSection("nope")
	assert.False(t, ok)
	assert.False(t, Section(42).Valid())
	assert.Equal(t, "Section(42)", Section(42).String())
}

func TestParseStateDefaults(t *testing.T) {
	c := Default()
	st := ParseState(url.Values{}, &c)
	assert.Equal(t, DefaultState(), st)
	assert.Equal(t, "/", st.URL())
}

func TestParseStateIgnoresInvalidValues(t *testing.T) {
	c := Default()
	q := url.Values{
		"section": {"bogus"},
		"example": {"99"},
		"client":  {"netscape"},
		"step":    {"3"},
	}
	assert.Equal(t, DefaultState(), ParseState(q, &c))

	q = url.Values{"example": {"-1"}, "demo": {"yes"}}
	assert.Equal(t, DefaultState(), ParseState(q, &c))
}

func TestParseStateClampsDemoStep(t *testing.T) {
	c := Default()
	st := ParseState(url.Values{"demo": {"1"}, "step": {"17"}}, &c)
	assert.True(t, st.DemoOpen)
	assert.Equal(t, len(c.Demo.Steps)-1, st.DemoStep)

	st = ParseState(url.Values{"demo": {"1"}, "step": {"-4"}}, &c)
	assert.Equal(t, 0, st.DemoStep)
}

func TestStateQueryRoundTrip(t *testing.T) {
	c := Default()
	st := State{Section: RealExamples, Example: 2, Client: "vscode", DemoOpen: true, DemoStep: 2}
	u, err := url.Parse(st.URL())
	assert.NoError(t, err)
	assert.Equal(t, st, ParseState(u.Query(), &c))
}

func TestToggleExample(t *testing.T) {
	st := DefaultState().SelectSection(RealExamples)
	st = st.ToggleExample(3)
	assert.Equal(t, 3, st.Example)
	st = st.ToggleExample(1)
	assert.Equal(t, 1, st.Example)
	st = st.ToggleExample(1)
	assert.Equal(t, -1, st.Example)
}

func TestToggleClient(t *testing.T) {
	st := DefaultState().ToggleClient("figma")
	assert.Equal(t, "figma", st.Client)
	assert.Equal(t, "", st.ToggleClient("figma").Client)
	assert.Equal(t, "vscode", st.ToggleClient("vscode").Client)
}

func TestDemoLifecycle(t *testing.T) {
	st := DefaultState().AdvanceDemo(4)
	assert.Equal(t, 0, st.DemoStep, "closed demo does not advance")

	st = st.OpenDemo()
	assert.True(t, st.DemoOpen)
	for i := 0; i < 10; i++ {
		st = st.AdvanceDemo(4)
	}
	assert.Equal(t, 3, st.DemoStep)

	st = st.CloseDemo()
	assert.False(t, st.DemoOpen)
	assert.Equal(t, 0, st.DemoStep)
}

func TestSelectSectionKeepsOtherState(t *testing.T) {
	st := State{Section: WhatIsMCP, Example: 2, Client: "figma"}
	next := st.SelectSection(TwoFlows)
	assert.Equal(t, TwoFlows, next.Section)
	assert.Equal(t, 2, next.Example)
	assert.Equal(t, "figma", next.Client)

	assert.Equal(t, st, st.SelectSection(Section(-1)))
	assert.Equal(t, WhereYouUseIt, st.StartTour().Section)
	assert.Equal(t, WhatIsMCP, st.Section, "transitions return new values")
}
