package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/lotuschain/gnome-ext-builder/internal/llm"
	"github.com/lotuschain/gnome-ext-builder/internal/tui"
)

var resetConfig bool

// SetupCmd represents the setup command.
var SetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive configuration wizard",
	Long: `Configure gnome-ext-builder with an interactive wizard.

The wizard asks for:
- Provider: the completion service (Gemini or Anthropic)
- Model: the model requests are sent to

Credentials are never written to the file; set API_KEY (or GEMINI_API_KEY)
for Gemini and ANTHROPIC_API_KEY for Anthropic.

Configuration is saved to ~/` + ConfigFileName,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	SetupCmd.Flags().BoolVar(&resetConfig, "reset", false, "Reset configuration to defaults")
}

func runSetup(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if resetConfig {
		if err := os.Remove(configPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove config: %w", err)
		}
		fmt.Println(tui.SuccessStyle.Render("✓") + " Configuration reset to defaults")
		fmt.Printf("  Removed: %s\n", configPath)
		return nil
	}

	if err := loadEnv(); err != nil {
		return err
	}

	p := tea.NewProgram(newSetupModel(llm.AvailableModels()))
	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}

	finalModel := m.(setupModel)
	if finalModel.cancelled {
		fmt.Println("Setup cancelled")
		return nil
	}

	// Keep settings the wizard does not ask about.
	config := &fileConfig{}
	if _, err := os.Stat(configPath); err == nil {
		if config, err = readConfig(configPath); err != nil {
			return err
		}
	}
	config.Provider = finalModel.provider
	config.Model = finalModel.model

	if err := writeConfig(configPath, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println(tui.SuccessStyle.Render("✓") + " Configuration saved to " + configPath)
	fmt.Println()
	fmt.Printf("  Provider: %s\n", tui.ModelStyle.Render(config.Provider))
	fmt.Printf("  Model:    %s\n", tui.ModelStyle.Render(config.Model))
	if llm.CredentialFromEnv(config.Provider) == "" {
		fmt.Println()
		fmt.Printf("%s No credential found. Set %s before generating.\n",
			tui.WarningStyle.Render("!"), llm.CredentialEnv(config.Provider))
	}
	return nil
}

// Bubble Tea model for the setup wizard

const (
	stepProvider = iota
	stepModel
)

type setupModel struct {
	step      int
	providers list.Model
	models    map[string]list.Model
	provider  string
	model     string
	cancelled bool
	width     int
	height    int
}

type providerItem struct {
	id         string
	name       string
	credential bool
}

func (p providerItem) Title() string { return p.name }
func (p providerItem) Description() string {
	if p.credential {
		return "Credential found in " + llm.CredentialEnv(p.id)
	}
	return "No credential set (" + llm.CredentialEnv(p.id) + ")"
}
func (p providerItem) FilterValue() string { return p.name }

type modelItem struct {
	info llm.ModelInfo
}

func (m modelItem) Title() string       { return m.info.Name }
func (m modelItem) Description() string { return m.info.Description }
func (m modelItem) FilterValue() string { return m.info.Name }

func newSetupModel(models map[string][]llm.ModelInfo) setupModel {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(lipgloss.Color("#ec4899"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(lipgloss.Color("#9ca3af"))

	newList := func(title string, items []list.Item) list.Model {
		l := list.New(items, delegate, 60, 14)
		l.Title = title
		l.SetShowStatusBar(false)
		l.SetFilteringEnabled(false)
		l.Styles.Title = tui.TitleStyle
		return l
	}

	providers := []list.Item{
		providerItem{id: llm.ProviderGemini, name: "Gemini", credential: llm.CredentialFromEnv(llm.ProviderGemini) != ""},
		providerItem{id: llm.ProviderAnthropic, name: "Anthropic", credential: llm.CredentialFromEnv(llm.ProviderAnthropic) != ""},
	}

	modelLists := make(map[string]list.Model, len(models))
	for provider, infos := range models {
		items := make([]list.Item, len(infos))
		for i, info := range infos {
			items[i] = modelItem{info: info}
		}
		modelLists[provider] = newList("Select Model", items)
	}

	return setupModel{
		providers: newList("Select Provider", providers),
		models:    modelLists,
	}
}

func (m setupModel) Init() tea.Cmd {
	return nil
}

func (m setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.providers.SetSize(msg.Width, msg.Height-4)
		for k, l := range m.models {
			l.SetSize(msg.Width, msg.Height-4)
			m.models[k] = l
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			if m.step == stepProvider {
				if item, ok := m.providers.SelectedItem().(providerItem); ok {
					m.provider = item.id
					m.step = stepModel
				}
				return m, nil
			}
			if item, ok := m.models[m.provider].SelectedItem().(modelItem); ok {
				m.model = item.info.ID
			}
			return m, tea.Quit

		case "left", "h":
			if m.step == stepModel {
				m.step = stepProvider
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.step == stepProvider {
		m.providers, cmd = m.providers.Update(msg)
	} else {
		l := m.models[m.provider]
		l, cmd = l.Update(msg)
		m.models[m.provider] = l
	}
	return m, cmd
}

func (m setupModel) View() string {
	if m.cancelled {
		return ""
	}

	steps := []string{"Provider", "Model"}
	progress := "\n  "
	for i, s := range steps {
		if i == m.step {
			progress += tui.SelectedStyle.Render(fmt.Sprintf("[%s]", s))
		} else if i < m.step {
			progress += tui.SuccessStyle.Render(fmt.Sprintf("✓ %s", s))
		} else {
			progress += tui.UnselectedStyle.Render(fmt.Sprintf("○ %s", s))
		}
		if i < len(steps)-1 {
			progress += " → "
		}
	}
	progress += "\n\n"

	help := tui.HelpStyle.Render("\n  ↑/↓: navigate • enter: select • ←: back • q: quit")

	current := m.providers
	if m.step == stepModel {
		current = m.models[m.provider]
	}
	return progress + current.View() + help
}
