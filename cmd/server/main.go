// @title           DevLog API
// @version         1.0
// @description     Developer portfolio backend (DevLog).
// @description     Provides authentication, projects, notes, profile and a public portfolio page.
// @termsOfService  https://example.com/terms

// @contact.name   Ivan Chernomyrdin
// @contact.url    https://github.com/IvanChernomyrdin
// @contact.email  ivan@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:5000
// @BasePath  /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
//
// Package main содержит точку входа серверного приложения DevLog.
//
// Вся инициализация (конфиг, хранилища, роутер, graceful shutdown) живёт
// в internal/server/cli; здесь только передаём версию сборки.
// HTTP API документируется с помощью OpenAPI (Swagger), см. /swagger/index.html.
package main

import (
	"github.com/IvanChernomyrdin/go-devlog/internal/server/cli"

	_ "github.com/IvanChernomyrdin/go-devlog/swagger/docs"
)

var (
	// buildVersion содержит версию приложения, передаваемую при сборке.
	buildVersion = "dev"
	// buildDate содержит дату сборки приложения.
	buildDate = "unknown"
)

func main() {
	cli.Execute(buildVersion, buildDate)
}
