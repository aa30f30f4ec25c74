// Package assets provides the CSS styles and the standalone page template.
//
// Built-in assets are embedded in the binary. A custom directory with the
// same layout can override any of them:
//
//	{root}/
//	├── styles/{name}.css
//	└── templates/page.html
//
// AssetResolver consults the custom directory first and falls back to the
// built-in set for names it does not have. Names are restricted to letters,
// digits, '-' and '_' (see ValidateName), and custom files must resolve inside
// their root after following symlinks.
package assets
