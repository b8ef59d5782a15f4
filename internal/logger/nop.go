package logger

// Nop discards every log call. Used by tests and as a default
// when no logger has been wired yet.
type Nop struct{}

func (Nop) Info(string, string, map[string]interface{})    {}
func (Nop) Warning(string, string, map[string]interface{}) {}
func (Nop) Error(string, error, map[string]interface{})    {}
func (Nop) Debug(string, string, map[string]interface{})   {}
