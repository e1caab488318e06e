package audit

import (
	"context"
	"fmt"
	"strconv"

	"portfolio-contact-backend/internal/domain"
)

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case error:
		return t.Error()
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func requestIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	return domain.RequestIDFrom(ctx)
}
