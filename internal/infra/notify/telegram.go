// Package notify delivers low-stock warnings to a Telegram chat.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/frostedfabrics/inventory-api/internal/domain/inventory"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const queueSize = 64

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram queues warnings and sends them from Run, so request handlers
// never wait on the Bot API.
type Telegram struct {
	api    sender
	chatID int64
	log    *slog.Logger
	queue  chan []inventory.LowStock
}

func NewTelegram(token string, chatID int64, log *slog.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return newTelegram(api, chatID, log), nil
}

func newTelegram(api sender, chatID int64, log *slog.Logger) *Telegram {
	return &Telegram{api: api, chatID: chatID, log: log, queue: make(chan []inventory.LowStock, queueSize)}
}

// NotifyLowStock never blocks; warnings are dropped when the queue is full.
func (t *Telegram) NotifyLowStock(items []inventory.LowStock) {
	if len(items) == 0 {
		return
	}
	select {
	case t.queue <- items:
	default:
		t.log.Warn("low-stock queue full, warning dropped", "materials", len(items))
	}
}

// Run sends queued warnings until ctx is cancelled.
func (t *Telegram) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case items := <-t.queue:
			t.send(FormatLowStock(items))
		}
	}
}

func (t *Telegram) send(text string) {
	if t.chatID == 0 {
		return
	}
	if _, err := t.api.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
		t.log.Error("send failed", "err", err)
	}
}

// FormatLowStock renders one message, one line per material, ordered by id.
// Repeated materials keep the last reported figure.
func FormatLowStock(items []inventory.LowStock) string {
	latest := make(map[int64]inventory.LowStock, len(items))
	for _, it := range items {
		latest[it.MaterialID] = it
	}
	list := make([]inventory.LowStock, 0, len(latest))
	for _, it := range latest {
		list = append(list, it)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].MaterialID < list[j].MaterialID })

	var sb strings.Builder
	sb.WriteString("Low material stock:\n")
	for _, it := range list {
		if it.Stock <= 0 {
			fmt.Fprintf(&sb, "- %s (#%d): out of stock\n", it.Name, it.MaterialID)
			continue
		}
		fmt.Fprintf(&sb, "- %s (#%d): %d left, alert at %d\n", it.Name, it.MaterialID, it.Stock, it.Alert)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Nop is used when no bot token is configured.
type Nop struct{}

func (Nop) NotifyLowStock([]inventory.LowStock) {}
