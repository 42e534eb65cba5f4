package site

// sectionView builds the template name and data for one section. Views are
// pure: same catalog and state, same output.
type sectionView func(c *Catalog, st State) (string, any)

var sectionViews = map[Section]sectionView{
	WhatIsMCP:        whatIsMCPView,
	WhereYouUseIt:    whereYouUseItView,
	SetupFlow:        setupFlowView,
	Credentials:      credentialsView,
	RealExamples:     realExamplesView,
	ServersDirectory: serversDirectoryView,
	TwoFlows:         twoFlowsView,
}

func templateName(s Section) string {
	return "section-" + s.Slug()
}

func copyFor(c *Catalog, s Section) SectionCopy {
	return c.Sections[int(s)]
}

func whatIsMCPView(c *Catalog, st State) (string, any) {
	return templateName(WhatIsMCP), struct {
		Copy SectionCopy
	}{copyFor(c, WhatIsMCP)}
}

type clientView struct {
	Client
	Selected  bool
	ToggleURL string
}

func whereYouUseItView(c *Catalog, st State) (string, any) {
	clients := make([]clientView, 0, len(c.Clients))
	for _, cl := range c.Clients {
		clients = append(clients, clientView{
			Client:    cl,
			Selected:  st.Client == cl.ID,
			ToggleURL: st.ToggleClient(cl.ID).URL(),
		})
	}
	return templateName(WhereYouUseIt), struct {
		Copy        SectionCopy
		Clients     []clientView
		Demo        Demo
		OpenDemoURL string
	}{copyFor(c, WhereYouUseIt), clients, c.Demo, st.OpenDemo().URL()}
}

func setupFlowView(c *Catalog, st State) (string, any) {
	return templateName(SetupFlow), struct {
		Copy  SectionCopy
		Steps []SetupStep
	}{copyFor(c, SetupFlow), c.SetupSteps}
}

func credentialsView(c *Catalog, st State) (string, any) {
	return templateName(Credentials), struct {
		Copy  SectionCopy
		Kinds []CredentialKind
	}{copyFor(c, Credentials), c.Credentials}
}

type exampleView struct {
	Example
	Index     int
	Selected  bool
	ToggleURL string
}

func realExamplesView(c *Catalog, st State) (string, any) {
	examples := make([]exampleView, 0, len(c.Examples))
	for i, ex := range c.Examples {
		examples = append(examples, exampleView{
			Example:   ex,
			Index:     i,
			Selected:  st.Example == i,
			ToggleURL: st.ToggleExample(i).URL(),
		})
	}
	return templateName(RealExamples), struct {
		Copy     SectionCopy
		Examples []exampleView
	}{copyFor(c, RealExamples), examples}
}

func serversDirectoryView(c *Catalog, st State) (string, any) {
	return templateName(ServersDirectory), struct {
		Copy       SectionCopy
		Reference  []Server
		ThirdParty []Server
		Categories []Category
	}{copyFor(c, ServersDirectory), c.ReferenceServers, c.ThirdPartyServers, c.Categories}
}

func twoFlowsView(c *Catalog, st State) (string, any) {
	return templateName(TwoFlows), struct {
		Copy  SectionCopy
		Flows []Flow
	}{copyFor(c, TwoFlows), c.Flows}
}
