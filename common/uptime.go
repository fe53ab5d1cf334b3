package common

import (
	"fmt"
	"time"
)

// FormatUptime formats d as HH:MM:SS, rounded to the nearest second.
// Hours are not wrapped at a day, so two days of uptime is 48:00:00.
func FormatUptime(d time.Duration) string {
	d = d.Round(time.Second)
	if d < 0 {
		d = 0
	}

	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}
