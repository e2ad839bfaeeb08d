package mission

import "fmt"

// GenerateMissionID builds a mission ID from the start time and a random token.
// The format is dispatch_<startMillis>_<token>.
func GenerateMissionID(startMillis int64, token string) string {
	return fmt.Sprintf("dispatch_%d_%s", startMillis, token)
}
