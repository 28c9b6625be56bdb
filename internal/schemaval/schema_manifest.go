package schemaval

// masterSchema is the top-level manifest shape. Required-ness of `service`
// and `owner` is enforced structurally in ValidateManifest so that their
// absence maps to MissingRequiredFieldError rather than a generic schema
// violation; the schema still pins their types when present.
const masterSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "service": {
      "type": "string",
      "pattern": "^[a-z][a-z0-9-]*$"
    },
    "owner": {"type": "string", "minLength": 1},
    "complianceFramework": {
      "enum": ["commercial", "fedramp-moderate", "fedramp-high"]
    },
    "environment": {"type": "string"},
    "region": {"type": "string"},
    "accountId": {"type": "string"},
    "components": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string", "pattern": "^[a-z][a-z0-9-]*$"},
          "type": {"type": "string", "minLength": 1},
          "config": {"type": "object"},
          "binds": {
            "type": "array",
            "items": {
              "type": "object",
              "properties": {
                "to": {"type": "string", "minLength": 1},
                "capability": {"type": "string", "pattern": "^[a-z0-9-]+:[a-z0-9-]+$"},
                "access": {"enum": ["read", "write", "readwrite", "admin"]},
                "env": {
                  "type": "object",
                  "additionalProperties": {"type": "string"}
                }
              },
              "required": ["to", "capability"]
            }
          }
        },
        "required": ["name", "type"]
      }
    },
    "environments": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "defaults": {"type": "object"}
        }
      }
    },
    "tags": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    },
    "labels": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    },
    "governance": {
      "type": "object",
      "properties": {
        "cdkNag": {
          "type": "object",
          "properties": {
            "suppress": {
              "type": "array",
              "items": {"type": "object"}
            }
          }
        }
      }
    }
  },
  "required": ["components"]
}`
