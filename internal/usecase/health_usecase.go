package usecase

import "context"

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

// PingFunc reports database reachability. A nil PingFunc means no database.
type PingFunc func(ctx context.Context) error

type healthUsecase struct {
	ping           PingFunc
	emailTransport string
	backupPath     string
}

func NewHealthUsecase(ping PingFunc, emailTransport, backupPath string) HealthUsecase {
	return &healthUsecase{ping: ping, emailTransport: emailTransport, backupPath: backupPath}
}

// Check always reports "ok": submissions are accepted even when the
// database is down, so its state is informational.
func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	database := "not_configured"
	if u.ping != nil {
		if err := u.ping(ctx); err != nil {
			database = "unavailable"
		} else {
			database = "ok"
		}
	}
	return map[string]string{
		"status":          "ok",
		"database":        database,
		"email_transport": u.emailTransport,
		"backup_path":     u.backupPath,
	}
}
