package site

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type Hero struct {
	Badge   string `yaml:"badge"`
	Title   string `yaml:"title"`
	Tagline string `yaml:"tagline"`
	CTA     string `yaml:"cta"`
	Banner  string `yaml:"banner"`
}

type Card struct {
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
}

type Callout struct {
	Title    string `yaml:"title"`
	Body     string `yaml:"body"`
	Link     string `yaml:"link"`
	LinkText string `yaml:"link_text"`
}

// SectionCopy is the prose attached to one section. Body and Callout.Body are markdown.
type SectionCopy struct {
	Slug    string   `yaml:"slug"`
	Title   string   `yaml:"title"`
	Lead    string   `yaml:"lead"`
	Body    string   `yaml:"body"`
	Cards   []Card   `yaml:"cards"`
	Callout *Callout `yaml:"callout"`
}

// Client is a host app a reader can pick in "Where You See & Use It".
type Client struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Surface string `yaml:"surface"`
	Prompt  string `yaml:"prompt"`
	Behind  string `yaml:"behind"`
}

type DemoStep struct {
	Actor   string `yaml:"actor"`
	Detail  string `yaml:"detail"`
	Visible bool   `yaml:"visible"`
}

type Demo struct {
	Title    string     `yaml:"title"`
	Subtitle string     `yaml:"subtitle"`
	Steps    []DemoStep `yaml:"steps"`
}

type SetupStep struct {
	Title   string `yaml:"title"`
	Detail  string `yaml:"detail"`
	Snippet string `yaml:"snippet"`
}

type CredentialKind struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	When     string `yaml:"when"`
	What     string `yaml:"what"`
	How      string `yaml:"how"`
}

type ExampleStep struct {
	Actor  string `yaml:"actor"`
	Action string `yaml:"action"`
}

// Example is one illustrative integration scenario.
type Example struct {
	Title            string        `yaml:"title"`
	Description      string        `yaml:"description"`
	InteractionPoint string        `yaml:"interaction_point"`
	NeedsCredentials bool          `yaml:"needs_credentials"`
	CredentialType   string        `yaml:"credential_type"`
	SetupRole        string        `yaml:"setup_role"`
	EverydayRole     string        `yaml:"everyday_role"`
	DocLink          string        `yaml:"doc_link"`
	Conceptual       bool          `yaml:"conceptual"`
	Steps            []ExampleStep `yaml:"steps"`
}

type Server struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
}

type Category struct {
	Name  string `yaml:"name"`
	Items string `yaml:"items"`
}

type FlowStep struct {
	Title  string `yaml:"title"`
	Detail string `yaml:"detail"`
	Tools  string `yaml:"tools"`
}

type Flow struct {
	Role     string     `yaml:"role"`
	Subtitle string     `yaml:"subtitle"`
	Steps    []FlowStep `yaml:"steps"`
}

type ChatCopy struct {
	Greeting    string `yaml:"greeting"`
	Error       string `yaml:"error"`
	Placeholder string `yaml:"placeholder"`
}

type Footer struct {
	Text     string `yaml:"text"`
	Link     string `yaml:"link"`
	LinkText string `yaml:"link_text"`
}

// Catalog is the whole static content set.
type Catalog struct {
	Hero              Hero             `yaml:"hero"`
	Sections          []SectionCopy    `yaml:"sections"`
	Clients           []Client         `yaml:"clients"`
	Demo              Demo             `yaml:"demo"`
	SetupSteps        []SetupStep      `yaml:"setup_steps"`
	Credentials       []CredentialKind `yaml:"credentials"`
	Examples          []Example        `yaml:"examples"`
	ReferenceServers  []Server         `yaml:"reference_servers"`
	ThirdPartyServers []Server         `yaml:"third_party_servers"`
	Categories        []Category       `yaml:"categories"`
	Flows             []Flow           `yaml:"flows"`
	Chat              ChatCopy         `yaml:"chat"`
	Footer            Footer           `yaml:"footer"`
}

// ParseCatalog decodes and checks a catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Sections) != len(allSections) {
		return fmt.Errorf("catalog has %d sections, want %d", len(c.Sections), len(allSections))
	}
	for i, s := range allSections {
		if c.Sections[i].Slug != s.Slug() {
			return fmt.Errorf("catalog section %d is %q, want %q", i, c.Sections[i].Slug, s.Slug())
		}
	}
	seen := map[string]bool{}
	for _, cl := range c.Clients {
		if cl.ID == "" || seen[cl.ID] {
			return fmt.Errorf("client id %q is empty or duplicated", cl.ID)
		}
		seen[cl.ID] = true
	}
	for _, ex := range c.Examples {
		if ex.Title == "" || len(ex.Steps) == 0 {
			return fmt.Errorf("example %q needs a title and at least one step", ex.Title)
		}
	}
	if len(c.Demo.Steps) == 0 {
		return fmt.Errorf("demo needs at least one step")
	}
	if c.Chat.Greeting == "" || c.Chat.Error == "" {
		return fmt.Errorf("chat greeting and error text are required")
	}
	return nil
}

// The embedded catalog is parsed once at package load and never written again.
var defaultCatalog = mustParseCatalog(catalogYAML)

func mustParseCatalog(data []byte) *Catalog {
	c, err := ParseCatalog(data)
	if err != nil {
		panic(err)
	}
	return c
}

// Default returns a deep copy of the embedded catalog, so callers cannot
// mutate the shared one.
func Default() Catalog {
	return defaultCatalog.clone()
}

// Greeting is the assistant turn every transcript starts with.
func Greeting() string {
	return defaultCatalog.Chat.Greeting
}

// ErrorReply is the assistant turn shown when a chat send fails.
func ErrorReply() string {
	return defaultCatalog.Chat.Error
}

func (c *Catalog) clone() Catalog {
	out := *c
	out.Sections = make([]SectionCopy, len(c.Sections))
	for i, s := range c.Sections {
		s.Cards = append([]Card(nil), s.Cards...)
		if s.Callout != nil {
			co := *s.Callout
			s.Callout = &co
		}
		out.Sections[i] = s
	}
	out.Clients = append([]Client(nil), c.Clients...)
	out.Demo.Steps = append([]DemoStep(nil), c.Demo.Steps...)
	out.SetupSteps = append([]SetupStep(nil), c.SetupSteps...)
	out.Credentials = append([]CredentialKind(nil), c.Credentials...)
	out.Examples = cloneExamples(c.Examples)
	out.ReferenceServers = append([]Server(nil), c.ReferenceServers...)
	out.ThirdPartyServers = append([]Server(nil), c.ThirdPartyServers...)
	out.Categories = append([]Category(nil), c.Categories...)
	out.Flows = make([]Flow, len(c.Flows))
	for i, f := range c.Flows {
		f.Steps = append([]FlowStep(nil), f.Steps...)
		out.Flows[i] = f
	}
	return out
}

func cloneExamples(in []Example) []Example {
	out := make([]Example, len(in))
	for i, ex := range in {
		ex.Steps = append([]ExampleStep(nil), ex.Steps...)
		out[i] = ex
	}
	return out
}
