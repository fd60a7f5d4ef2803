package tui

import (
	"time"

	"fundwatch/pkg/config"
	"fundwatch/pkg/fund"
	"fundwatch/pkg/models"
	"fundwatch/pkg/notes"
	"fundwatch/pkg/submit"
	"fundwatch/pkg/watcher"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Version is set by Start()
var Version = "dev"

// --- Messages ---

type clearStatusMsg struct{}
type uiTickMsg time.Time

// txResultMsg reports the outcome of an asynchronous write.
type txResultMsg struct {
	action string
	id     uint64
	err    error
}

// justificationMsg carries fetched off-chain proposal text.
type justificationMsg struct {
	id   uint64
	text string
	err  error
}

// Form modes; exactly one can be active.
const (
	formNone = iota
	formContribute
	formRedeem
	formProposal
)

// Proposal form input slots.
const (
	proposalInputFrom = iota
	proposalInputTo
	proposalInputAmount
	proposalInputMinReceive
	proposalInputJustification
	proposalInputCount
)

type model struct {
	cfg        config.Config
	configPath string

	watcher   *watcher.Watcher
	sub       watcher.Subscriber
	client    *fund.Client
	submitter *submit.Submitter
	notes     *notes.Client

	snap       models.FundSnapshot
	loading    bool
	submitting bool
	lastUpdate time.Time

	width  int
	height int

	spinner       spinner.Model
	statusMessage string
	showHelp      bool

	// Dashboard highlight: index into snap.Assets, -1 for none. All
	// other rows render with the neutral color while one is held.
	highlightIdx int
	showGraph    bool
	valueHistory []float64

	// Proposals screen
	showProposals      bool
	proposalIdx        int
	showProposalDetail bool
	viewport           viewport.Model
	justification      string

	// Forms
	formMode       int
	formFocus      int
	amountInput    textinput.Model
	proposalInputs []textinput.Model
}

func initialModel(w *watcher.Watcher, client *fund.Client, submitter *submit.Submitter, notesClient *notes.Client, cfg config.Config, configPath string) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	amountTi := textinput.New()
	amountTi.Placeholder = "Amount (e.g. 100.50)"
	amountTi.Width = 30

	pis := make([]textinput.Model, proposalInputCount)
	for i := range pis {
		pis[i] = textinput.New()
		pis[i].Width = 40
	}
	pis[proposalInputFrom].Placeholder = "Trade token symbol (e.g. ETH)"
	pis[proposalInputTo].Placeholder = "Receive token symbol (e.g. BTC)"
	pis[proposalInputAmount].Placeholder = "Amount to trade"
	pis[proposalInputMinReceive].Placeholder = "Minimum to receive"
	pis[proposalInputJustification].Placeholder = "Justification (optional)"

	vp := viewport.New(0, 0)

	return model{
		cfg:            cfg,
		configPath:     configPath,
		watcher:        w,
		sub:            w.Subscribe(),
		client:         client,
		submitter:      submitter,
		notes:          notesClient,
		loading:        true,
		spinner:        s,
		highlightIdx:   -1,
		amountInput:    amountTi,
		proposalInputs: pis,
		viewport:       vp,
	}
}

func (m model) Init() tea.Cmd {
	var cmds []tea.Cmd

	// Listen for watcher events
	cmds = append(cmds, listenForWatcher(m.sub))

	cmds = append(cmds, m.spinner.Tick)
	cmds = append(cmds, tea.Tick(time.Second, func(t time.Time) tea.Msg { return uiTickMsg(t) }))
	return tea.Batch(cmds...)
}
