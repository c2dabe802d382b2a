package docs

// @title Museum Visit Recommender API
// @version 1.0
// @description Hybrid museum artwork recommendation service: content-based matching, case-based reasoning and collaborative filtering over visit history.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /
// @schemes http https
