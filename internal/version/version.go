// Package version хранит информацию о сборке, подставляемую через -ldflags:
//
//	go build -ldflags "-X github.com/ericleon/storefront/internal/version.version=v1.2.3 ..."
package version

import "fmt"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Info возвращает версию, коммит и дату сборки.
func Info() (v, c, d string) { return version, commit, date }

// String собирает информацию о сборке в одну строку для логов и CLI.
func String() string {
	return fmt.Sprintf("version=%s commit=%s date=%s", version, commit, date)
}
