/*
Package config loads domainstore configuration.

Sources, lowest precedence first:

  - built-in defaults
  - a YAML file (domainstore.yaml by default)
  - dotenv files, which only fill variables not already set
  - DOMAINSTORE_ environment variables
  - explicitly set command line flags

Example file:

	domain:
	  default_mapping: memory
	  fail_on_error: true
	  datastores: [archive]
	log:
	  level: debug
	dynamodb:
	  table: domain
	  region: eu-west-1
*/
package config
