package setup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"launchpad/internal/adapter/tui/components"
	"launchpad/internal/adapter/tui/components/wizard"
	"launchpad/internal/adapter/tui/theme"
	"launchpad/internal/adapter/tui/uxerror"
	"launchpad/internal/domain"
	"launchpad/internal/usecase/credential"
	flow "launchpad/internal/usecase/wizard"
)

// Deploy form field positions.
const (
	fieldGitHubToken = iota
	fieldRepoName
	fieldPrivate
	fieldNewVercelToken
)

const (
	fieldExistingRepo = iota
	fieldExistingVercelToken
)

// Deps are the collaborators of the wizard.
type Deps struct {
	Backend  Backend
	Deployer flow.Deployer
	GitHosts domain.GitHostFactory
	// BackendURL is shown in the status bar.
	BackendURL string
	Logger     *slog.Logger
	// NameCheckOptions are passed to the name checker (tests inject a clock).
	NameCheckOptions []flow.NameCheckerOption
}

// WizardModel is the root Bubble Tea model of the setup wizard.
type WizardModel struct {
	deps  Deps
	orch  *flow.Orchestrator
	phase Phase
	steps wizard.StepIndicatorModel

	authForm     wizard.FieldGroup
	dbForm       wizard.FieldGroup
	newForm      wizard.FieldGroup
	existingForm wizard.FieldGroup
	mode         flow.RepoMode
	validator    wizard.APIValidatorModel
	spinner      spinner.Model
	doc          components.DocViewModel
	sqlLoaded    bool
	sqlErr       string
	navErr       string

	// Repository name availability.
	checker    *flow.NameChecker
	nameCh     chan tea.Msg
	owner      string
	ownerToken string
	lastName   string

	// Deploy run.
	running       bool
	cancelRun     context.CancelFunc
	pipeCh        <-chan tea.Msg
	bar           progress.Model
	pct           int
	progressLabel string
	fileInfo      string
	published     bool
	repo          domain.Done
	result        flow.PipelineResult
	runErr        string

	cancelled bool
	width     int
	height    int
}

// NewWizardModel creates the wizard at the Auth phase.
func NewWizardModel(deps Deps) WizardModel {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	var steps []wizard.Step
	for _, p := range AllPhases() {
		steps = append(steps, wizard.Step{Name: p.Name})
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.ColorInfo)

	repoName := wizard.NewTextField("Repository name", flow.DefaultRepoName)
	repoName.SetValue(flow.DefaultRepoName)

	m := WizardModel{
		deps:  deps,
		orch:  flow.NewOrchestrator(),
		phase: PhaseAuth,
		steps: wizard.NewStepIndicator(steps),
		authForm: wizard.NewFieldGroup(
			wizard.NewTextField("Publishable key", "pk_test_..."),
			wizard.NewSecretField("Secret key", "sk_test_..."),
		),
		dbForm: wizard.NewFieldGroup(
			wizard.NewTextField("Project URL", "https://xxxx.supabase.co"),
			wizard.NewTextField("Publishable key", "sb_publishable_..."),
			wizard.NewSecretField("Secret key", "sb_secret_..."),
		),
		newForm: wizard.NewFieldGroup(
			wizard.NewSecretField("GitHub token", "ghp_..."),
			repoName,
			wizard.NewConfirmField("Private repository?", true),
			wizard.NewSecretField("Vercel token", "token from vercel.com/account/tokens"),
		),
		existingForm: wizard.NewFieldGroup(
			wizard.NewTextField("Existing repository", "owner/repo"),
			wizard.NewSecretField("Vercel token", "token from vercel.com/account/tokens"),
		),
		validator: wizard.NewAPIValidator("Testing connection", "Connected"),
		spinner:   s,
		doc:       components.NewDocView(),
		nameCh:    make(chan tea.Msg, 16),
		bar:       progress.New(progress.WithGradient(theme.ProgressGradient[0], theme.ProgressGradient[1])),
		lastName:  flow.DefaultRepoName,
	}
	m.newForm.Fields[fieldGitHubToken].Description = "Needs the repo scope."

	nameCh := m.nameCh
	m.checker = flow.NewNameChecker(deps.GitHosts, func(s flow.NameState) {
		select {
		case nameCh <- NameStateMsg{State: s}:
		default:
		}
	}, deps.Logger, deps.NameCheckOptions...)
	return m
}

// Result returns the outcome of the last deploy attempt.
func (m WizardModel) Result() flow.PipelineResult {
	return m.result
}

// Cancelled reports whether the user left before deploying.
func (m WizardModel) Cancelled() bool {
	return m.cancelled
}

// Phase returns the active phase.
func (m WizardModel) Phase() Phase {
	return m.phase
}

// Session returns the credentials collected so far.
func (m WizardModel) Session() domain.SetupSession {
	return m.orch.Session()
}

// Init starts the cursor blink and the name state listener.
func (m WizardModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForMsg(m.nameCh))
}

// Update handles messages.
func (m WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.steps.SetWidth(m.width - 4)
		m.doc.SetSize(theme.Clamp(m.width-4, 20, theme.MaxContentWidth), theme.Clamp(m.height-16, 5, 40))
		m.bar.Width = theme.Clamp(m.width-12, 10, 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m.quit(true)
		case tea.KeyEsc:
			if m.running {
				return m, nil
			}
			if m.phase == PhaseComplete {
				return m.quit(false)
			}
			if !m.orch.Back() {
				return m.quit(true)
			}
			return m.enterPhase(Phase(m.orch.Current()))
		}
		if m.running {
			return m, nil
		}

	case spinner.TickMsg:
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.validator, cmd = m.validator.Update(msg)
		cmds = append(cmds, cmd)
		if m.running || m.checker.State() == flow.NameChecking {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case VerifyResultMsg:
		return m.handleVerify(msg)

	case SQLLoadedMsg:
		m.sqlLoaded = msg.Err == nil
		m.sqlErr = ""
		if msg.Err != nil {
			m.sqlErr = domain.UserMessage(msg.Err)
			return m, nil
		}
		m.doc.SetMarkdown(connectDoc(msg.SQL))
		return m, nil

	case OwnerMsg:
		if msg.Token == m.ownerToken {
			m.owner = msg.Owner
			m.checker.Update(m.owner, m.newForm.Value(fieldRepoName), msg.Token)
		}
		return m, nil

	case NameStateMsg:
		var cmd tea.Cmd
		if msg.State == flow.NameChecking {
			cmd = m.spinner.Tick
		}
		return m, tea.Batch(cmd, waitForMsg(m.nameCh))

	case PublishEventMsg:
		m.applyEvent(msg.Event)
		return m, waitForMsg(m.pipeCh)

	case PipelineDoneMsg:
		return m.handlePipelineDone(msg)
	}

	switch m.phase {
	case PhaseAuth:
		return m.updateAuth(msg)
	case PhaseDatabase:
		return m.updateDatabase(msg)
	case PhaseConnect:
		return m.updateConnect(msg)
	case PhaseDeploy:
		return m.updateDeploy(msg)
	case PhaseComplete:
		if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
			return m.quit(false)
		}
	}
	return m, nil
}

func (m WizardModel) quit(cancelled bool) (tea.Model, tea.Cmd) {
	m.cancelled = cancelled
	if m.cancelRun != nil {
		m.cancelRun()
	}
	m.checker.Reset()
	return m, tea.Quit
}

// --- Phase navigation ---

func (m WizardModel) advance() (tea.Model, tea.Cmd) {
	if err := m.orch.Next(); err != nil {
		m.navErr = domain.UserMessage(err)
		return m, nil
	}
	return m.enterPhase(Phase(m.orch.Current()))
}

func (m WizardModel) enterPhase(p Phase) (tea.Model, tea.Cmd) {
	m.phase = p
	m.navErr = ""
	m.runErr = ""
	m.steps.SetCurrent(int(p))
	m.validator.Reset()
	if p < PhaseDeploy && m.orch.Session().Verified(p.Step()) {
		m.validator.HandleResult(true, "")
	}

	switch p {
	case PhaseConnect:
		m.validator.Action = "Checking for the profiles table"
		m.validator.SuccessText = "Profiles table found"
		if !m.sqlLoaded {
			return m, loadSQLCmd(m.deps.Backend)
		}
	default:
		m.validator.Action = "Testing connection"
		m.validator.SuccessText = "Connected"
	}
	return m, nil
}

// --- Phase updates ---

func (m WizardModel) updateAuth(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(wizard.FieldSubmitMsg); ok {
		if m.orch.Session().AuthVerified {
			return m.advance()
		}
		s := m.orch.Session()
		return m, tea.Batch(
			m.validator.Start(),
			testAuthCmd(m.deps.Backend, s.AuthPublishableKey, s.AuthSecretKey, m.fingerprint(PhaseAuth)),
		)
	}

	var cmd tea.Cmd
	m.authForm, cmd = m.authForm.Update(msg)
	m.orch.SetAuthKeys(m.authForm.Value(0), m.authForm.Value(1))
	m.syncVerified()
	return m, cmd
}

func (m WizardModel) updateDatabase(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(wizard.FieldSubmitMsg); ok {
		if m.orch.Session().DBVerified {
			return m.advance()
		}
		s := m.orch.Session()
		creds := credential.Credentials{URL: s.DBURL, PublishableKey: s.DBPublishableKey, SecretKey: s.DBSecretKey}
		return m, tea.Batch(
			m.validator.Start(),
			testDatabaseCmd(m.deps.Backend, creds, m.fingerprint(PhaseDatabase)),
		)
	}

	var cmd tea.Cmd
	m.dbForm, cmd = m.dbForm.Update(msg)
	m.orch.SetDatabase(m.dbForm.Value(0), m.dbForm.Value(1), m.dbForm.Value(2))
	m.syncVerified()
	return m, cmd
}

func (m WizardModel) updateConnect(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			if m.orch.Session().TableVerified {
				return m.advance()
			}
			if m.validator.Validating {
				return m, nil
			}
			s := m.orch.Session()
			return m, tea.Batch(
				m.validator.Start(),
				verifyTableCmd(m.deps.Backend, s.DBURL, s.DBSecretKey, m.fingerprint(PhaseConnect)),
			)
		case tea.KeyCtrlR:
			return m, loadSQLCmd(m.deps.Backend)
		}
	}

	var cmd tea.Cmd
	m.doc, cmd = m.doc.Update(msg)
	return m, cmd
}

func (m WizardModel) updateDeploy(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlT {
			return m.toggleMode()
		}
	case wizard.FieldSubmitMsg:
		return m.startPipeline()
	}

	var cmd tea.Cmd
	if m.mode == flow.RepoExisting {
		m.existingForm, cmd = m.existingForm.Update(msg)
		return m, cmd
	}
	m.newForm, cmd = m.newForm.Update(msg)
	return m, tea.Batch(cmd, m.syncNameCheck())
}

func (m WizardModel) toggleMode() (tea.Model, tea.Cmd) {
	m.runErr = ""
	if m.mode == flow.RepoNew {
		m.mode = flow.RepoExisting
		m.existingForm.Fields[fieldExistingVercelToken].SetValue(m.newForm.Value(fieldNewVercelToken))
		return m, m.existingForm.SetFocus(fieldExistingRepo)
	}
	m.mode = flow.RepoNew
	m.newForm.Fields[fieldNewVercelToken].SetValue(m.existingForm.Value(fieldExistingVercelToken))
	return m, m.newForm.SetFocus(fieldGitHubToken)
}

// syncNameCheck feeds token and name edits to the owner lookup and the name checker.
func (m *WizardModel) syncNameCheck() tea.Cmd {
	token := m.newForm.Value(fieldGitHubToken)
	name := m.newForm.Value(fieldRepoName)
	if token == m.ownerToken && name == m.lastName {
		return nil
	}
	m.lastName = name

	var cmd tea.Cmd
	if token != m.ownerToken {
		m.ownerToken = token
		m.owner = ""
		cmd = lookupOwnerCmd(m.deps.GitHosts, token)
	}
	m.checker.Update(m.owner, name, token)
	return cmd
}

func (m WizardModel) deployInput() flow.DeployInput {
	if m.mode == flow.RepoExisting {
		return flow.DeployInput{
			Mode:         flow.RepoExisting,
			ExistingRepo: m.existingForm.Value(fieldExistingRepo),
			VercelToken:  m.existingForm.Value(fieldExistingVercelToken),
		}
	}
	return flow.DeployInput{
		Mode:        flow.RepoNew,
		GitHubToken: m.newForm.Value(fieldGitHubToken),
		RepoName:    m.newForm.Value(fieldRepoName),
		VercelToken: m.newForm.Value(fieldNewVercelToken),
		NameState:   m.checker.State(),
		Published:   m.published,
	}
}

func (m WizardModel) startPipeline() (tea.Model, tea.Cmd) {
	form := m.deployInput()
	if !flow.ReadyToDeploy(form) {
		m.runErr = "Fill in every field before deploying."
		return m, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	in := flow.PipelineInput{
		Session: m.orch.Session(),
		Form:    form,
		Private: m.newForm.Fields[fieldPrivate].ConfirmValue(true),
		Repo:    m.repo,
	}
	deps := flow.Deps{
		Env:       m.deps.Backend,
		Publisher: m.deps.Backend,
		Deployer:  m.deps.Deployer,
		Logger:    m.deps.Logger,
	}
	start, ch := runPipelineCmd(ctx, in, deps)

	m.running = true
	m.cancelRun = cancel
	m.pipeCh = ch
	m.runErr = ""
	if !m.published && form.Mode == flow.RepoNew {
		m.pct = 0
		m.progressLabel = "Creating repository..."
		m.fileInfo = ""
	}
	return m, tea.Batch(start, m.spinner.Tick)
}

func (m *WizardModel) applyEvent(ev domain.ProvisioningEvent) {
	m.pct = domain.Progress(ev, m.pct)
	switch e := ev.(type) {
	case domain.CreatingRepo:
		m.progressLabel = "Creating repository..."
	case domain.WaitingForRepo:
		m.progressLabel = "Initializing repository..."
	case domain.ReadingFiles:
		m.progressLabel = "Reading files..."
		m.fileInfo = fmt.Sprintf("0 / %d", e.Total)
	case domain.Uploading:
		m.progressLabel = "Uploading files..."
		m.fileInfo = fmt.Sprintf("%d / %d", e.Current, e.Total)
	case domain.Finalizing:
		m.progressLabel = "Finalizing..."
		m.fileInfo = ""
	case domain.Done:
		m.progressLabel = "Done!"
		m.fileInfo = ""
	}
}

func (m WizardModel) handlePipelineDone(msg PipelineDoneMsg) (tea.Model, tea.Cmd) {
	m.running = false
	m.pipeCh = nil
	if m.cancelRun != nil {
		m.cancelRun()
		m.cancelRun = nil
	}
	if msg.Result.Published {
		m.published = true
		m.repo = msg.Result.Repo
	}
	if msg.Err != nil {
		m.deps.Logger.Warn("deploy attempt failed", "error", msg.Err)
		m.runErr = uxerror.Humanize(msg.Err).Render()
		return m, nil
	}
	m.result = msg.Result
	m.phase = PhaseComplete
	return m, nil
}

func (m WizardModel) handleVerify(msg VerifyResultMsg) (tea.Model, tea.Cmd) {
	if Phase(msg.Step) != m.phase || msg.Fingerprint != m.fingerprint(m.phase) {
		// Values changed while the check was in flight.
		m.validator.Reset()
		return m, nil
	}
	m.validator.HandleResult(msg.Success, msg.Err)
	m.orch.MarkVerified(msg.Step, msg.Success)
	m.steps.SetDone(int(msg.Step), msg.Success)
	return m, nil
}

// syncVerified clears the verdict shown for the current step once an edit
// has cleared its flag.
func (m *WizardModel) syncVerified() {
	s := m.orch.Session()
	for step := domain.StepAuth; step < domain.StepDeploy; step++ {
		m.steps.SetDone(int(step), s.Verified(step))
	}
	if m.validator.Success && !s.Verified(m.phase.Step()) {
		m.validator.Reset()
	}
}

func (m WizardModel) fingerprint(p Phase) string {
	s := m.orch.Session()
	switch p {
	case PhaseAuth:
		return s.AuthPublishableKey + "\x00" + s.AuthSecretKey
	case PhaseDatabase, PhaseConnect:
		return s.DBURL + "\x00" + s.DBPublishableKey + "\x00" + s.DBSecretKey
	default:
		return ""
	}
}

// --- Views ---

// View renders the current phase.
func (m WizardModel) View() string {
	if m.width == 0 {
		return "  Initializing..."
	}

	title := theme.WizardTitle.Render("Launchpad Setup")

	var content string
	switch m.phase {
	case PhaseAuth:
		content = m.viewForm(m.authForm)
	case PhaseDatabase:
		content = m.viewForm(m.dbForm)
	case PhaseConnect:
		content = m.viewConnect()
	case PhaseDeploy:
		content = m.viewDeploy()
	case PhaseComplete:
		content = m.viewComplete()
	}

	sb := components.NewStatusBar()
	sb.Hints = m.hints()
	sb.Backend = m.deps.BackendURL
	if m.running {
		sb.Extra = "Deploying" + theme.SymbolEllipsis
	}
	sb.SetWidth(m.width)

	parts := []string{title}
	if m.phase != PhaseComplete {
		parts = append(parts, m.steps.View(), "")
	}
	parts = append(parts, content, "", sb.View())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m WizardModel) phaseHeader() string {
	info := AllPhases()[m.phase]
	return lipgloss.JoinVertical(lipgloss.Left,
		theme.Bold.Render(info.Title),
		theme.TextMuted.Render(info.Intro),
	)
}

func (m WizardModel) viewForm(form wizard.FieldGroup) string {
	parts := []string{m.phaseHeader(), "", form.View()}
	parts = append(parts, m.footerLines()...)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m WizardModel) footerLines() []string {
	var parts []string
	if m.validator.Active() {
		parts = append(parts, "", m.validator.View())
	}
	if m.validator.Success {
		parts = append(parts, theme.TextInfo.Render("Press Enter to continue"))
	}
	if m.navErr != "" {
		parts = append(parts, theme.TextError.Render(theme.SymbolError+" "+m.navErr))
	}
	return parts
}

func (m WizardModel) viewConnect() string {
	parts := []string{m.phaseHeader(), ""}
	switch {
	case m.sqlErr != "":
		parts = append(parts,
			theme.TextError.Render(theme.SymbolError+" "+m.sqlErr),
			theme.TextMuted.Render("Press Ctrl+R to retry"))
	case !m.sqlLoaded:
		parts = append(parts, theme.TextMuted.Render("Loading SQL"+theme.SymbolEllipsis))
	default:
		parts = append(parts, theme.BorderNormal.Render(m.doc.View()))
	}
	parts = append(parts, m.footerLines()...)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m WizardModel) viewDeploy() string {
	parts := []string{m.phaseHeader(), ""}

	if m.mode == flow.RepoExisting {
		parts = append(parts,
			theme.TextMuted.Render("Deploying an existing repository (Ctrl+T for a new one)"),
			"",
			m.existingForm.View())
	} else {
		parts = append(parts,
			theme.TextMuted.Render("Publishing a new repository (Ctrl+T to use an existing one)"),
			"",
			m.newForm.View())
		if line := m.viewNameState(); line != "" {
			parts = append(parts, line)
		}
	}

	if m.running || m.published {
		parts = append(parts, "", m.viewProgress())
	}
	if m.running && (m.published || m.mode == flow.RepoExisting || m.pct == 100) {
		parts = append(parts, m.spinner.View()+" Deploying to Vercel"+theme.SymbolEllipsis)
	}
	if m.runErr != "" {
		parts = append(parts, "", theme.TextError.Render(m.runErr))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m WizardModel) viewNameState() string {
	full := m.owner + "/" + m.newForm.Value(fieldRepoName)
	switch m.checker.State() {
	case flow.NameChecking:
		return m.spinner.View() + " Checking availability" + theme.SymbolEllipsis
	case flow.NameAvailable:
		return theme.TextSuccess.Render(theme.SymbolSuccess + " " + full + " is available")
	case flow.NameTaken:
		if m.published {
			return ""
		}
		return theme.TextWarning.Render(theme.SymbolWarning + " " + full + " already exists. Choose a different name.")
	case flow.NameError:
		return theme.TextMuted.Render("Could not check availability")
	default:
		return ""
	}
}

func (m WizardModel) viewProgress() string {
	if m.published && !m.running {
		return theme.TextSuccess.Render(theme.SymbolSuccess+" Pushed to ") + theme.TextInfo.Render(m.repo.RepoURL)
	}
	label := m.progressLabel
	if m.fileInfo != "" {
		label += "  " + theme.TextMuted.Render(m.fileInfo)
	}
	return lipgloss.JoinVertical(lipgloss.Left, label, m.bar.ViewAs(float64(m.pct)/100))
}

func (m WizardModel) viewComplete() string {
	parts := []string{
		theme.TextSuccess.Render(theme.SymbolSuccess + " Your site is deploying!"),
		"",
		fmt.Sprintf("  Repository:  %s", theme.TextInfo.Render(m.result.Repo.RepoURL)),
	}
	if m.result.Deploy.URL != "" {
		parts = append(parts, fmt.Sprintf("  Site:        %s", theme.TextInfo.Render(m.result.Deploy.URL)))
	}
	if len(m.result.Deploy.EnvFailures) > 0 {
		parts = append(parts, "",
			theme.TextWarning.Render(theme.SymbolWarning+" Some environment variables were not set on Vercel:"))
		for _, k := range m.result.Deploy.EnvFailures {
			parts = append(parts, "    "+theme.SymbolBullet+" "+k)
		}
		parts = append(parts, theme.TextMuted.Render("  Add them in the Vercel dashboard or run launchpad redeploy."))
	}
	parts = append(parts, "", theme.TextInfo.Render("Press Enter to exit"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m WizardModel) hints() []components.KeyHint {
	switch m.phase {
	case PhaseComplete:
		return []components.KeyHint{{Key: "Enter", Desc: "Exit"}}
	case PhaseConnect:
		return []components.KeyHint{
			{Key: "Enter", Desc: "Verify"},
			{Key: "↑/↓", Desc: "Scroll"},
			{Key: "Esc", Desc: "Back"},
			{Key: "Ctrl+C", Desc: "Quit"},
		}
	case PhaseDeploy:
		return []components.KeyHint{
			{Key: "Tab", Desc: "Next field"},
			{Key: "Enter", Desc: "Deploy"},
			{Key: "Ctrl+T", Desc: "Repo mode"},
			{Key: "Esc", Desc: "Back"},
			{Key: "Ctrl+C", Desc: "Quit"},
		}
	default:
		return []components.KeyHint{
			{Key: "Tab", Desc: "Next field"},
			{Key: "Enter", Desc: "Verify"},
			{Key: "Esc", Desc: "Back"},
			{Key: "Ctrl+C", Desc: "Quit"},
		}
	}
}
