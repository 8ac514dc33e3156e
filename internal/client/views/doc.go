// Package views holds the interactive components of covy: Auth, Profile,
// CoverLetter and Navigation.
//
// A component exposes named operations (SubmitLogin, SubmitProfile,
// Generate, ...) that a presentation layer invokes. An operation validates
// its input, calls the API, and pushes the result into the state store. It
// never renders the result itself: rendering happens only in the
// component's store subscriptions, so every topic has one rendering path
// no matter which component changed it.
//
// Each failed operation produces exactly one alert and returns an error
// that can be matched with errors.Is. Loading indicators are cleared on
// every path.
package views
