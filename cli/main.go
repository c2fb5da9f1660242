package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#0a84ff")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#5e5ce6")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#30d158")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)
)

// Model defines the application state
type Model struct {
	mainMenu     list.Model
	zoneTable    table.Model
	itemTable    table.Model
	profileTable table.Model
	alertList    list.Model
	textInput    textinput.Model
	spinner      spinner.Model
	client       *ApiClient
	report       *Report
	catalog      *Catalog
	loading      bool
	currentView  string
	status       string
	error        string
}

// item represents a list item
type item struct {
	title, desc string
}

// FilterValue implements list.Item interface
func (i item) FilterValue() string { return i.title }

// Title implements list.Item interface
func (i item) Title() string { return i.title }

// Description implements list.Item interface
func (i item) Description() string { return i.desc }

// Initialize the model
func initialModel() Model {
	// Initialize spinner
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	// Initialize main menu items
	items := []list.Item{
		item{title: "Dashboard", desc: "Run a simulated cycle and view the storage zones"},
		item{title: "Active Alerts", desc: "Alerts raised by the last cycle"},
		item{title: "Item Profiles", desc: "Ideal conditions per product"},
		item{title: "Submit Reading", desc: "Analyze a manual sensor reading"},
		item{title: "Exit", desc: "Exit the application"},
	}

	mainMenu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "Cold Storage CLI"

	zoneTable := table.New(
		table.WithColumns([]table.Column{
			{Title: "Zone", Width: 10},
			{Title: "Risk", Width: 8},
			{Title: "Items", Width: 6},
			{Title: "Temp °C", Width: 8},
			{Title: "Humidity %", Width: 11},
			{Title: "Cooling %", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(6),
	)

	itemTable := table.New(
		table.WithColumns([]table.Column{
			{Title: "Item", Width: 14},
			{Title: "Zone", Width: 5},
			{Title: "Temp °C", Width: 8},
			{Title: "Priority", Width: 9},
			{Title: "Spoilage", Width: 9},
			{Title: "Action", Width: 60},
		}),
		table.WithHeight(8),
	)

	profileTable := table.New(
		table.WithColumns([]table.Column{
			{Title: "Label", Width: 14},
			{Title: "Zone", Width: 5},
			{Title: "Ideal °C", Width: 9},
			{Title: "Humidity %", Width: 11},
			{Title: "Shelf life", Width: 11},
		}),
		table.WithFocused(true),
		table.WithHeight(8),
	)

	alertList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	alertList.Title = "Active Alerts"

	ti := textinput.New()
	ti.Placeholder = "banana,16.5,85"
	ti.CharLimit = 64
	ti.Width = 30

	return Model{
		mainMenu:     mainMenu,
		zoneTable:    zoneTable,
		itemTable:    itemTable,
		profileTable: profileTable,
		alertList:    alertList,
		textInput:    ti,
		spinner:      s,
		client:       NewApiClient(),
		currentView:  "main",
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.EnterAltScreen)
}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.mainMenu.SetSize(msg.Width-h, msg.Height-v)
		m.alertList.SetSize(msg.Width-h, msg.Height-v-2)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.currentView != "submit" {
				return m, tea.Quit
			}
		case "enter":
			switch m.currentView {
			case "main":
				selected, ok := m.mainMenu.SelectedItem().(item)
				if !ok {
					break
				}
				m.error = ""
				switch selected.title {
				case "Exit":
					return m, tea.Quit
				case "Dashboard":
					m.currentView = "dashboard"
					m.loading = true
					return m, fetchDashboard(m.client)
				case "Active Alerts":
					m.currentView = "alerts"
					if m.report == nil {
						m.loading = true
						return m, fetchDashboard(m.client)
					}
				case "Item Profiles":
					m.currentView = "profiles"
					m.loading = true
					return m, fetchProfiles(m.client)
				case "Submit Reading":
					m.currentView = "submit"
					m.status = ""
					m.textInput.SetValue("")
					m.textInput.Focus()
					return m, textinput.Blink
				}
			case "submit":
				reading, err := parseReadingInput(m.textInput.Value())
				if err != nil {
					m.error = err.Error()
					return m, nil
				}
				m.loading = true
				return m, submitReading(m.client, reading)
			}
		case "r":
			if m.currentView == "dashboard" {
				m.loading = true
				return m, fetchDashboard(m.client)
			}
		case "esc":
			if m.currentView != "main" {
				m.textInput.Blur()
				m.currentView = "main"
				m.error = ""
			}
			return m, nil
		}
	case reportMsg:
		m.loading = false
		m.error = ""
		m.setReport(msg.report)
		if msg.submitted {
			m.status = fmt.Sprintf("Report %s: %d zone(s), %d alert(s)", msg.report.ID, len(msg.report.Zones), len(msg.report.Alerts))
			m.currentView = "dashboard"
		}
		return m, nil
	case catalogMsg:
		m.loading = false
		m.error = ""
		m.catalog = msg.catalog
		m.profileTable.SetRows(profileRows(msg.catalog))
		return m, nil
	case errorMsg:
		m.loading = false
		m.error = msg.err
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.currentView {
	case "main":
		m.mainMenu, cmd = m.mainMenu.Update(msg)
	case "dashboard":
		m.zoneTable, cmd = m.zoneTable.Update(msg)
		m.itemTable.SetRows(itemRows(m.report, m.selectedZone()))
	case "alerts":
		m.alertList, cmd = m.alertList.Update(msg)
	case "profiles":
		m.profileTable, cmd = m.profileTable.Update(msg)
	case "submit":
		m.textInput, cmd = m.textInput.Update(msg)
	}

	return m, cmd
}

func (m *Model) setReport(report *Report) {
	m.report = report
	m.zoneTable.SetRows(zoneRows(report))
	m.zoneTable.SetCursor(0)
	m.itemTable.SetRows(itemRows(report, m.selectedZone()))
	m.alertList.SetItems(convertAlertsToItems(report.Alerts))
}

func (m Model) selectedZone() string {
	row := m.zoneTable.SelectedRow()
	if len(row) == 0 {
		return ""
	}
	return row[0]
}

// View renders the UI
func (m Model) View() string {
	if m.loading {
		return docStyle.Render(m.spinner.View() + " Contacting " + m.client.BaseURL + "...")
	}

	footer := ""
	if m.error != "" {
		footer = "\n" + errorStyle.Render(m.error) + "\n"
	}

	switch m.currentView {
	case "main":
		return docStyle.Render(m.mainMenu.View())
	case "dashboard":
		return docStyle.Render(dashboardView(m) + footer)
	case "alerts":
		if m.report != nil && len(m.report.Alerts) == 0 {
			return docStyle.Render(titleStyle.Render("Active Alerts") + "\n\n" + successStyle.Render("No active alerts") + "\n\nPress 'esc' to go back" + footer)
		}
		return docStyle.Render(m.alertList.View() + footer)
	case "profiles":
		view := titleStyle.Render("Item Profiles") + "\n\n" + m.profileTable.View() + "\n"
		if m.catalog != nil {
			view += fmt.Sprintf("\nDefault profile: %s\n", m.catalog.DefaultLabel)
			view += "Gas thresholds: " + formatThresholds(m.catalog.GasThresholds) + "\n"
		}
		return docStyle.Render(view + "\nPress 'esc' to go back" + footer)
	case "submit":
		help := "\nFormat: <label>,<temperature>,<humidity>. Temperature and humidity are optional.\nPress 'enter' to analyze, 'esc' to cancel\n"
		return docStyle.Render(titleStyle.Render("Submit Reading") + "\n\n" + m.textInput.View() + help + footer)
	default:
		return "Loading..."
	}
}

func dashboardView(m Model) string {
	view := titleStyle.Render("Storage Dashboard") + "\n\n"
	if m.report == nil {
		return view + "No report yet"
	}

	view += infoStyle.Render(fmt.Sprintf("%s cycle %s", m.report.Source, m.report.GeneratedAt.Format("15:04:05"))) + "\n\n"
	view += m.zoneTable.View() + "\n\n"
	view += m.itemTable.View() + "\n"
	if m.status != "" {
		view += "\n" + successStyle.Render(m.status) + "\n"
	}
	view += "\nUse arrows to select a zone, 'r' to run a new cycle, 'esc' to go back"
	return view
}

// Custom message types for the tea.Model
type reportMsg struct {
	report    *Report
	submitted bool
}

type catalogMsg struct {
	catalog *Catalog
}

type errorMsg struct {
	err string
}

// alertItem represents an alert in the list
type alertItem struct {
	title string
	desc  string
}

func (i alertItem) Title() string       { return i.title }
func (i alertItem) Description() string { return i.desc }
func (i alertItem) FilterValue() string { return i.desc }

// fetchDashboard runs a simulated cycle on the server
func fetchDashboard(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		report, err := client.GetDashboard()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching dashboard: %v", err)}
		}
		return reportMsg{report: report}
	}
}

// fetchProfiles retrieves the profile catalog
func fetchProfiles(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		catalog, err := client.GetProfiles()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching profiles: %v", err)}
		}
		return catalogMsg{catalog: catalog}
	}
}

// submitReading sends a manual reading to the API
func submitReading(client *ApiClient, reading Reading) tea.Cmd {
	return func() tea.Msg {
		report, err := client.SubmitReading(reading)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error submitting reading: %v", err)}
		}
		return reportMsg{report: report, submitted: true}
	}
}

// parseReadingInput parses "<label>,<temperature>,<humidity>"
func parseReadingInput(input string) (Reading, error) {
	parts := strings.Split(input, ",")
	label := strings.TrimSpace(parts[0])
	if label == "" {
		return Reading{}, fmt.Errorf("please enter an item label")
	}

	reading := Reading{Label: label}
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return Reading{}, fmt.Errorf("invalid temperature %q", parts[1])
		}
		reading.Temperature = &v
	}
	if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil {
			return Reading{}, fmt.Errorf("invalid humidity %q", parts[2])
		}
		reading.Humidity = &v
	}
	return reading, nil
}

func zoneRows(report *Report) []table.Row {
	rows := make([]table.Row, 0, len(report.Zones))
	for _, name := range report.ZoneNames() {
		z := report.Zones[name]
		rows = append(rows, table.Row{
			name,
			z.RiskLevel,
			strconv.Itoa(z.ItemsStored),
			fmt.Sprintf("%.1f", z.Temperature),
			fmt.Sprintf("%.1f", z.Humidity),
			strconv.Itoa(z.CoolingDuty),
		})
	}
	return rows
}

func itemRows(report *Report, zone string) []table.Row {
	if report == nil {
		return nil
	}
	z, ok := report.Zones[zone]
	if !ok {
		return nil
	}
	rows := make([]table.Row, 0, len(z.Items))
	for _, it := range z.Items {
		rows = append(rows, table.Row{
			it.Name,
			it.Zone,
			fmt.Sprintf("%.1f", it.Temperature),
			it.Optimization.Priority,
			it.Spoilage.Risk,
			it.Optimization.Action,
		})
	}
	return rows
}

func profileRows(catalog *Catalog) []table.Row {
	rows := make([]table.Row, 0, len(catalog.Profiles))
	for _, p := range catalog.Profiles {
		rows = append(rows, table.Row{
			p.Label,
			p.Zone,
			fmt.Sprintf("%.1f", p.IdealTemperature),
			fmt.Sprintf("%.0f", p.IdealHumidity),
			fmt.Sprintf("%d days", p.ShelfLifeDays),
		})
	}
	return rows
}

// convertAlertsToItems converts dashboard alerts to list items
func convertAlertsToItems(alerts []Alert) []list.Item {
	items := make([]list.Item, len(alerts))
	for i, a := range alerts {
		items[i] = alertItem{title: a.Type, desc: a.Message}
	}
	return items
}

func formatThresholds(thresholds map[string]float64) string {
	parts := make([]string, 0, len(thresholds))
	for _, gas := range []string{"ethylene", "ammonia", "h2s", "co2"} {
		if v, ok := thresholds[gas]; ok {
			parts = append(parts, fmt.Sprintf("%s %.2f", gas, v))
		}
	}
	return strings.Join(parts, ", ")
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v", err)
		os.Exit(1)
	}
}
