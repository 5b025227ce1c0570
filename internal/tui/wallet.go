package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/interviewpro/cli/pkg/client"
	"github.com/interviewpro/cli/pkg/domain"
)

type walletLoadedMsg struct {
	wallet *domain.Wallet
	err    error
}

// walletModel shows the credit balance and the most recent transactions.
type walletModel struct {
	client  *client.Client
	wallet  *domain.Wallet
	loading bool
	err     string
	width   int
	height  int
}

func newWalletModel(c *client.Client) walletModel {
	return walletModel{client: c, loading: true}
}

func (m walletModel) Init() tea.Cmd {
	return m.load()
}

func (m walletModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		w, err := c.Wallet(context.Background())
		return walletLoadedMsg{wallet: w, err: err}
	}
}

func (m walletModel) Update(msg tea.Msg) (walletModel, tea.Cmd) {
	switch msg := msg.(type) {
	case walletLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = client.Detail(msg.err)
		} else {
			m.wallet = msg.wallet
			m.err = ""
		}

	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			return m, m.load()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m walletModel) View() string {
	if m.loading && m.wallet == nil {
		return " " + dimStyle.Render("loading wallet...")
	}
	if m.err != "" {
		return " " + errStyle.Render("error: "+m.err)
	}
	if m.wallet == nil {
		return " " + dimStyle.Render("no wallet data")
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(" " + dimStyle.Render("balance") + "  " + creditStyle.Render(fmt.Sprintf("%d credits", m.wallet.BalanceCredits)) + "\n\n")

	if len(m.wallet.LastTransactions) == 0 {
		sb.WriteString(" " + dimStyle.Render("no transactions yet — buy credits with `interviewpro buy <pack>`") + "\n")
		return sb.String()
	}

	sb.WriteString(" " + metaStyle.Render("recent transactions") + "\n")
	for _, tx := range m.wallet.LastTransactions {
		amount := fmt.Sprintf("%+d", tx.Credits)
		amountStyled := okStyle.Render(amount)
		if tx.Credits < 0 {
			amountStyled = errStyle.Render(amount)
		}
		status := ""
		if tx.Status != "" && tx.Status != "completed" {
			status = "  " + warnStyle.Render(tx.Status)
		}
		sb.WriteString(fmt.Sprintf(" %s  %s%s  %s\n",
			amountStyled,
			normalStyle.Render(truncStr(tx.Type, 24)),
			status,
			metaStyle.Render(formatTime(tx.CreatedAt)),
		))
	}
	return sb.String()
}
