package engine

import "time"

// appendLog records one LogEntry on the room's persisted log and stages it
// on PendingLogs, the batch the Room Dispatcher drains into the outbound
// `game_log` event after a successful action (§5, §9).
func (gs *GameState) appendLog(severity LogSeverity, category LogCategory, source, message string, cards ...CardDescriptor) {
	entry := LogEntry{
		ID:        gs.nextLogID(),
		Timestamp: time.Now(),
		Message:   message,
		Severity:  severity,
		Category:  category,
		Source:    source,
		Cards:     cards,
	}
	gs.Logs = append(gs.Logs, entry)
	gs.PendingLogs = append(gs.PendingLogs, entry)
}
