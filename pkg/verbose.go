package duplicatescanner

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

var globalVerboseLevel int
var debugFlags map[string]bool

// SetVerboseLevel sets the global verbose level (0=quiet, 1=basic,
// 2=detailed, 3=trace)
func SetVerboseLevel(level int) {
	globalVerboseLevel = level
}

// GetVerboseLevel returns the current verbose level
func GetVerboseLevel() int {
	return globalVerboseLevel
}

// VerboseLog logs a message to stderr at the specified verbose level
func VerboseLog(level int, format string, args ...interface{}) {
	if globalVerboseLevel >= level {
		fmt.Fprintf(os.Stderr, "[VERBOSE-%d] ", level)
		fmt.Fprintf(os.Stderr, format, args...)
		if !strings.HasSuffix(format, "\n") {
			fmt.Fprintf(os.Stderr, "\n")
		}
	}
}

// VerboseEnter logs function entry at level 3+ and returns a defer function
// for exit logging
func VerboseEnter() func() {
	if globalVerboseLevel < 3 {
		return func() {}
	}

	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return func() {}
	}

	funcName := runtime.FuncForPC(pc).Name()
	if idx := strings.LastIndex(funcName, "."); idx != -1 {
		funcName = funcName[idx+1:]
	}

	fmt.Fprintf(os.Stderr, "[TRACE] Entering function: %s\n", funcName)

	return func() {
		fmt.Fprintf(os.Stderr, "[TRACE] Exiting function: %s\n", funcName)
	}
}

// SetDebugFlags sets the debug flags from a comma-separated string, e.g.
// "scan,watch"
func SetDebugFlags(flagsStr string) {
	debugFlags = make(map[string]bool)
	for _, flag := range strings.Split(flagsStr, ",") {
		flag = strings.ToLower(strings.TrimSpace(flag))
		if flag != "" {
			debugFlags[flag] = true
		}
	}
}

// IsDebugEnabled returns true if the specified debug flag is enabled
func IsDebugEnabled(flag string) bool {
	if debugFlags == nil {
		return false
	}
	return debugFlags[strings.ToLower(flag)]
}
