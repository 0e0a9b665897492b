package vnpay

import (
	"time"
)

const dateLayout = "20060102150405"

// VNPay đọc mọi mốc thời gian theo giờ Việt Nam (GMT+7)
var vietnamLocation = loadVietnamLocation()

func loadVietnamLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		return time.FixedZone("ICT", 7*60*60)
	}
	return loc
}

// FormatDate formats t as yyyyMMddHHmmss in Vietnam time.
func FormatDate(t time.Time) string {
	return t.In(vietnamLocation).Format(dateLayout)
}

// CreateDate returns the current time in the vnp_CreateDate format.
func CreateDate() string {
	return FormatDate(time.Now())
}

// ParseDate parses a yyyyMMddHHmmss timestamp in Vietnam time.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, value, vietnamLocation)
}
