// Package docs rateAmovie API documentation
package docs

// Swagger documentation info
// @title rateAmovie API
// @version 1.0
// @description Movie rating platform - browse movies, write reviews, manage your profile
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@rateamovie.local

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

// @tag.name auth
// @tag.description Authentication and session management

// @tag.name movies
// @tag.description Movie catalog management

// @tag.name reviews
// @tag.description Movie reviews and votes

// @tag.name profile
// @tag.description User profile management
