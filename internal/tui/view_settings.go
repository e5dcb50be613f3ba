package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/carousel/internal/config"
)

// Settings rows
const (
	settingRatio = iota
	settingScheme
	settingAuto
	settingFontScale
	settingOverlay
	settingBrand
	settingCount
)

const sliderStep = 10

func (a *App) handleSettingsKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	s := a.state

	if s.editingBrand {
		switch {
		case key.Matches(msg, keys.Enter):
			if name := strings.TrimSpace(s.brandInput.Value()); name != "" {
				s.config.Brand.Name = name
				s.dirtyCfg = true
			}
			s.editingBrand = false
			s.brandInput.Blur()
			return nil, true
		case key.Matches(msg, keys.Back):
			s.editingBrand = false
			s.brandInput.Blur()
			return nil, true
		}
		return nil, false
	}

	switch {
	case key.Matches(msg, keys.Up):
		if s.settingsSelected > 0 {
			s.settingsSelected--
		}
	case key.Matches(msg, keys.Down):
		if s.settingsSelected < settingCount-1 {
			s.settingsSelected++
		}
	case key.Matches(msg, keys.Left):
		a.adjustSetting(-1)
	case key.Matches(msg, keys.Right):
		a.adjustSetting(1)
	case key.Matches(msg, keys.Enter):
		if s.settingsSelected == settingBrand {
			s.editingBrand = true
			s.brandInput.SetValue(s.config.Brand.Name)
			return s.brandInput.Focus(), true
		}
		a.adjustSetting(1)
	case key.Matches(msg, keys.Back):
		a.view = a.prevView
		cmd := a.focusView()
		if s.dirtyCfg {
			return tea.Batch(cmd, a.saveConfig()), true
		}
		return cmd, true
	}
	return nil, true
}

// adjustSetting moves the selected row by dir (-1 or 1)
func (a *App) adjustSetting(dir int) {
	s := a.state
	cfg := s.config

	switch s.settingsSelected {
	case settingRatio:
		i := (config.RatioIndex(cfg.Ratio) + dir + len(config.Ratios)) % len(config.Ratios)
		cfg.Ratio = config.Ratios[i].ID
	case settingScheme:
		names := s.schemes.List()
		if len(names) == 0 {
			return
		}
		i := (indexOf(names, cfg.Scheme) + dir + len(names)) % len(names)
		cfg.Scheme = names[i]
		s.scheme = cfg.Scheme
		s.status = "Scheme " + cfg.Scheme + ", ctrl+g to regenerate"
	case settingAuto:
		cfg.AutoStructure = !cfg.AutoStructure
		s.autoStructure = cfg.AutoStructure
	case settingFontScale:
		cfg.FontScale = clamp(cfg.FontScale+dir*sliderStep, config.MinFontScale, config.MaxFontScale)
	case settingOverlay:
		cfg.OverlayOpacity = clamp(cfg.OverlayOpacity+dir*sliderStep, config.MinOverlayOpacity, config.MaxOverlayOpacity)
	default:
		return
	}
	s.dirtyCfg = true
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func (a *App) renderSettings() string {
	var b strings.Builder
	s := a.state
	cfg := s.config

	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Settings")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	ratioName := cfg.Ratio
	if r := config.GetRatio(cfg.Ratio); r != nil {
		ratioName = fmt.Sprintf("%s (%dx%d)", r.Name, r.Width, r.Height)
	}
	auto := "off"
	if cfg.AutoStructure {
		auto = "on"
	}
	brand := cfg.Brand.Name
	if s.editingBrand {
		brand = s.brandInput.View()
	}

	rows := []string{
		fmt.Sprintf("Format          < %s >", ratioName),
		fmt.Sprintf("Scheme          < %s >", cfg.Scheme),
		fmt.Sprintf("Auto-structure  < %s >", auto),
		fmt.Sprintf("Font scale      < %d%% >", cfg.FontScale),
		fmt.Sprintf("Overlay         < %d%% >", cfg.OverlayOpacity),
		fmt.Sprintf("Brand tag       %s", brand),
	}

	var lines []string
	for i, row := range rows {
		if i == s.settingsSelected {
			lines = append(lines, styleSelected.Render("> "+row))
		} else {
			lines = append(lines, styleSubtitle.Render("  "+row))
		}
	}

	box := styleBox.Copy().
		Width(min(56, a.width-4)).
		Render(strings.Join(lines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, box))
	b.WriteString("\n\n")

	colors := lipgloss.JoinHorizontal(lipgloss.Center,
		swatch(cfg.Brand.Primary), " primary   ",
		swatch(cfg.Brand.Accent), " accent   ",
		swatch(cfg.Brand.TextOnImage), " text",
	)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, colors))
	b.WriteString("\n\n")

	if path, err := config.ConfigPath(); err == nil {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleSubtitle.Render("Config: "+path)))
		b.WriteString("\n\n")
	}

	instructions := styleStatusBar.Render("[j/k] Navigate  [h/l] Change  [Enter] Edit  [Esc] Save and back")
	if s.editingBrand {
		instructions = styleStatusBar.Render("[Enter] Apply  [Esc] Cancel")
	}
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}

func swatch(hex string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("    ") + " " + hex
}
