package telegram

import "sync"

var (
	enhanceOn  sync.Map // chatID -> bool
	generating sync.Map // chatID -> int (in-flight generations)
)

func toggleEnhance(chatID int64) bool {
	on := false
	if v, ok := enhanceOn.Load(chatID); ok {
		on, _ = v.(bool)
	}
	enhanceOn.Store(chatID, !on)
	return !on
}

func enhanceEnabled(chatID int64) bool {
	if v, ok := enhanceOn.Load(chatID); ok {
		on, _ := v.(bool)
		return on
	}
	return false
}

func trackGeneration(chatID int64, delta int) int {
	n := 0
	if v, ok := generating.Load(chatID); ok {
		n, _ = v.(int)
	}
	n += delta
	if n <= 0 {
		generating.Delete(chatID)
		return 0
	}
	generating.Store(chatID, n)
	return n
}
