// Package cliconfig provides a configuration file loader that binds a
// urfave/cli context and an optional config file onto a tagged struct.
package cliconfig

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/oleiade/reflections"
	"github.com/urfave/cli"

	"github.com/masklog/secretsweeper/internal/osutil"
)

type Loader struct {
	// The context that is passed when using a urfave/cli action
	CLI *cli.Context

	// The struct that the config values will be loaded into
	Config any

	// A slice of paths to files that should be used as config files
	DefaultConfigFilePaths []string

	// The file that was used when loading this configuration
	File *File
}

// Load loads the config from the CLI and config files that are present and
// returns any warnings or errors.
func (l *Loader) Load() (warnings []string, err error) {
	// Try and find a config file, either passed in the command line using
	// --config, or in one of the default configuration file paths.
	if l.CLI.String("config") != "" {
		file := File{Path: l.CLI.String("config")}

		// Because this file was passed in manually, we should throw an error
		// if it doesn't exist.
		if file.Exists() {
			l.File = &file
		} else {
			absolutePath, _ := file.AbsolutePath()
			return warnings, fmt.Errorf("a configuration file could not be found at: %q", absolutePath)
		}
	} else if len(l.DefaultConfigFilePaths) > 0 {
		for _, path := range l.DefaultConfigFilePaths {
			file := File{Path: path}

			// If the config file exists, save it to the loader and
			// don't bother checking the others.
			if file.Exists() {
				l.File = &file
				break
			}
		}
	}

	// If a file was found, then we should load it
	if l.File != nil {
		// Attempt to load the config file we've found
		if err := l.File.Load(); err != nil {
			return warnings, fmt.Errorf("loading config file: %w", err)
		}
	}

	// Now it's onto actually setting the fields. We start by getting all
	// the fields from the configuration interface
	var fields []string
	fields, _ = reflections.FieldsDeep(l.Config)

	// Loop through each of the fields, and look for tags and handle them
	// appropriately
	for _, fieldName := range fields {
		// Start by loading the value from the CLI context if the tag
		// exists
		cliName, _ := reflections.GetFieldTag(l.Config, fieldName, "cli")
		if cliName != "" {
			// Load the value from the CLI Context
			err := l.setFieldValueFromCLI(fieldName, cliName)
			if err != nil {
				return warnings, fmt.Errorf("setting config field %s: %w", fieldName, err)
			}
		}

		// Are there any normalizations we need to make?
		normalization, _ := reflections.GetFieldTag(l.Config, fieldName, "normalize")
		if normalization != "" {
			// Apply the normalization
			err := l.normalizeField(fieldName, normalization)
			if err != nil {
				return warnings, fmt.Errorf("normalizing config field %s: %w", fieldName, err)
			}
		}
	}

	return warnings, nil
}

func (l Loader) setFieldValueFromCLI(fieldName, cliName string) error {
	// Get the kind of field we need to set
	fieldKind, err := reflections.GetFieldKind(l.Config, fieldName)
	if err != nil {
		return fmt.Errorf("getting the kind of struct field %q: %w", fieldName, err)
	}

	var value any

	// We start by defaulting the value to what ever was provided
	// by the configuration file
	if l.File != nil {
		if configFileValue, ok := l.File.Config[cliName]; ok {
			// Convert the config file value to its correct type
			switch fieldKind {
			case reflect.String:
				value = configFileValue
			case reflect.Slice:
				value = strings.Split(configFileValue, ",")
			case reflect.Bool:
				value, _ = strconv.ParseBool(configFileValue)
			case reflect.Int:
				value, _ = strconv.Atoi(configFileValue)
			default:
				return fmt.Errorf("unable to convert string to type %s", fieldKind)
			}
		}
	}

	// If a value hasn't been found in a config file, but there
	// _is_ one provided by the CLI context, then use that.
	if value == nil || l.cliValueIsSet(cliName) {
		switch fieldKind {
		case reflect.String:
			value = l.CLI.String(cliName)
		case reflect.Slice:
			value = l.CLI.StringSlice(cliName)
		case reflect.Bool:
			value = l.CLI.Bool(cliName)
		case reflect.Int:
			value = l.CLI.Int(cliName)
		default:
			return fmt.Errorf("unable to handle type: %s", fieldKind)
		}
	}

	// Set the value to the cfg
	if value != nil {
		err = reflections.SetField(l.Config, fieldName, value)
		if err != nil {
			return fmt.Errorf("setting value field %q to %q: %w", fieldName, value, err)
		}
	}

	return nil
}

func (l Loader) cliValueIsSet(cliName string) bool {
	if l.CLI.IsSet(cliName) {
		return true
	}

	// cli.Context#IsSet only checks to see if the command was set via the cli, not
	// via the environment. So here we do some hacks to find out the name of the
	// EnvVar, and return true if it was set.
	for _, flag := range l.CLI.Command.Flags {
		name, _ := reflections.GetField(flag, "Name")
		envVar, _ := reflections.GetField(flag, "EnvVar")
		if name == cliName && envVar != "" {
			// Make sure envVar is a string
			if envVarStr, ok := envVar.(string); ok {
				envVarStr = strings.TrimSpace(envVarStr)
				return os.Getenv(envVarStr) != ""
			}
		}
	}

	return false
}

func (l Loader) normalizeField(fieldName, normalization string) error {
	if normalization == "filepath" {
		value, _ := reflections.GetField(l.Config, fieldName)
		fieldKind, _ := reflections.GetFieldKind(l.Config, fieldName)

		// Make sure we're normalizing a string field
		if fieldKind != reflect.String {
			return fmt.Errorf("filepath normalization only works on string fields")
		}

		// Normalize the field to be a filepath
		if valueAsString, ok := value.(string); ok {
			normalizedPath, err := osutil.NormalizeFilePath(valueAsString)
			if err != nil {
				return err
			}

			if err := reflections.SetField(l.Config, fieldName, normalizedPath); err != nil {
				return err
			}
		}
	} else if normalization == "list" {
		value, _ := reflections.GetField(l.Config, fieldName)
		fieldKind, _ := reflections.GetFieldKind(l.Config, fieldName)

		// Make sure we're normalizing a slice field
		if fieldKind != reflect.Slice {
			return fmt.Errorf("list normalization only works on slice fields")
		}

		// Normalize the field to be a flattened, comma-split slice
		if valueAsSlice, ok := value.([]string); ok {
			normalizedSlice := []string{}

			for _, value := range valueAsSlice {
				// Split values with commas into fields
				for normalized := range strings.SplitSeq(value, ",") {
					if normalized == "" {
						continue
					}

					normalized = strings.TrimSpace(normalized)

					normalizedSlice = append(normalizedSlice, normalized)
				}
			}

			if err := reflections.SetField(l.Config, fieldName, normalizedSlice); err != nil {
				return err
			}
		}
	} else {
		return fmt.Errorf("unknown normalization %q", normalization)
	}

	return nil
}
