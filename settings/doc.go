// Package settings loads engine and reveal configuration from a JSON
// settings document and converts it into construction options.
//
// Unknown fields are ignored so a settings document can be shared with the
// host application; type mismatches and out-of-range values are errors.
package settings
