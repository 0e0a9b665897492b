package util

import (
	"github.com/dustin/go-humanize"
)

// FormatVND chuyển đổi số tiền từ int64 sang chuỗi định dạng VND.
// Ví dụ: 1000000 -> "1.000.000 ₫".
func FormatVND(amount int64) string {
	return humanize.FormatInteger("#.###,", int(amount)) + " ₫"
}

// Hàm helper để rút gọn tiêu đề
func TruncateContent(title string, maxLength int) string {
	if len(title) <= maxLength {
		return title
	}
	return title[:maxLength] + "..."
}

func StringPointer(s string) *string {
	return &s
}
