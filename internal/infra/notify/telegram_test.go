package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/frostedfabrics/inventory-api/internal/domain/inventory"
	"github.com/frostedfabrics/inventory-api/internal/infra/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func TestFormatLowStock(t *testing.T) {
	got := FormatLowStock([]inventory.LowStock{
		{MaterialID: 9, Name: "Thread", Stock: 0, Alert: 5},
		{MaterialID: 2, Name: "Cotton", Stock: 7, Alert: 10},
		{MaterialID: 2, Name: "Cotton", Stock: 3, Alert: 10},
	})
	assert.Equal(t, "Low material stock:\n"+
		"- Cotton (#2): 3 left, alert at 10\n"+
		"- Thread (#9): out of stock", got)
}

func TestTelegram_RunSendsToAdminChat(t *testing.T) {
	api := &fakeSender{}
	tg := newTelegram(api, 555, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tg.Run(ctx)

	tg.NotifyLowStock([]inventory.LowStock{{MaterialID: 1, Name: "Felt", Stock: 1, Alert: 2}})

	require.Eventually(t, func() bool { return api.count() == 1 }, time.Second, 5*time.Millisecond)
	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, int64(555), api.sent[0].ChatID)
	assert.Contains(t, api.sent[0].Text, "Felt (#1)")
}

func TestTelegram_FullQueueDoesNotBlock(t *testing.T) {
	api := &fakeSender{err: errors.New("unreachable")}
	tg := newTelegram(api, 1, logger.Discard())

	done := make(chan struct{})
	go func() {
		for i := 0; i < queueSize+10; i++ {
			tg.NotifyLowStock([]inventory.LowStock{{MaterialID: int64(i)}})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("NotifyLowStock blocked")
	}
	assert.Len(t, tg.queue, queueSize)
}
