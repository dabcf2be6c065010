// Package changelog maintains markdown changelogs for versioned units.
//
// This package implements:
//   - Splicing a new severity-grouped version section below the title heading
//   - Version heading templates with {version}, {date} and {date#PATTERN}
//   - Loading a changelog, synthesizing an empty one when the file is missing
//   - Listing and looking up released sections for terminal display
//
// A changelog is a markdown document whose first block is the level-1
// heading "# Changelog". Newer sections are inserted directly below it so
// the file reads newest first.
package changelog
