package main

// General API documentation for swaggo. Run `make swagger-gen` to regenerate docs.
//
// @title           guidekit API
// @version         1.0
// @description     Debug API for the guide client core: session, screens, topic search and bus events.
//
// @contact.name   guidekit maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
