// Package loader supplies template sources from a directory and resolves
// partials by name.
//
// Core types:
//   - Config: where templates live and how they are loaded
//   - Set: a named collection of parsed templates, safe for concurrent use
//   - Resolver: the partial lookup contract a renderer depends on
//
// Template names are slash-separated paths relative to Config.Dir with the
// extension removed, so "mail/footer.mustache" is the partial "mail/footer".
//
// Example usage:
//
//	cfg, err := loader.LoadConfig("stache.toml")
//	if err != nil {
//	    return err
//	}
//	set, err := loader.Open(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	tmpl, ok := set.Lookup("mail/welcome")
//
// With Config.Watch set, Open keeps the set in sync with the directory
// until ctx is cancelled. A file that fails to parse is logged and the
// previously loaded version stays in place.
package loader
