// Package config loads client profiles: reusable sets of headers, timeout,
// JSON backend and logging settings stored as YAML or JSON.
//
// A profile looks like this:
//
//	serializer: v2
//	timeout: 30s
//	logging: true
//	variables:
//	  token: abc123
//	headers:
//	  - name: Authorization
//	    value: Bearer {{token}}
//	v2:
//	  deterministic: true
//	  allowedRanges: [BasicLatin, CyrillicBlock, Han]
//
// Basic Usage:
//
//	profile, err := config.LoadProfile("profile.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client, err := profile.NewClient()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Variable Substitution:
//
// Header values may reference profile variables with the {{name}} syntax.
// Unknown placeholders are sent unchanged.
//
// Validation:
//
// ValidateProfile reports every problem at once; Apply refuses an invalid
// profile without touching the client.
package config
