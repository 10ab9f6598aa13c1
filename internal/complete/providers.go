package complete

// Default handler providers. Everything is wired through the explicit
// registry; nothing is discovered by naming convention.

// RegisterDefaults installs the shipped per-command handlers.
func RegisterDefaults(r *Registry) {
	dirOnly := HandlerFunc(completeDirs)
	commands := HandlerFunc(completeCommandNames)
	wrapper := HandlerFunc(completeWrappedCommand)

	r.Register("cd", dirOnly)
	r.Register("pushd", dirOnly)
	r.Register("rmdir", dirOnly)

	r.Register("which", commands)
	r.Register("whereis", commands)
	r.Register("type", commands)
	r.Register("hash", commands)

	r.Register("sudo", wrapper)
	r.Register("env", wrapper)
	r.Register("nice", wrapper)
	r.Register("nohup", wrapper)
	r.Register("exec", wrapper)
	r.Register("time", wrapper)

	r.Register("unalias", HandlerFunc(completeAliasNames))
	r.Register("unset", HandlerFunc(completeSymbolNames))
}

// completeDirs offers directories only.
func completeDirs(ctx ArgContext) ([]Candidate, error) {
	return dirCandidates(ctx.Dir, ctx.Seed)
}

// completeCommandNames offers search-path executables.
func completeCommandNames(ctx ArgContext) ([]Candidate, error) {
	var cands []Candidate
	for _, name := range ctx.Engine.Index().Commands() {
		cands = append(cands, Candidate{Value: name})
	}
	return cands, nil
}

// completeWrappedCommand handles prefix commands like sudo: the first
// argument completes as a command name, later arguments complete as if the
// wrapper were absent.
func completeWrappedCommand(ctx ArgContext) ([]Candidate, error) {
	if ctx.Index == 1 {
		if dontSearch(ctx.Seed) {
			return fileCandidates(ctx.Dir, ctx.Seed, true, nil)
		}
		return completeCommandNames(ctx)
	}

	e := ctx.Engine
	name, _ := CanonicalCommand(ctx.Args[1], ignoreExtensions(e.opts.IgnoreFileExtensions))
	if h, ok := e.registry.Handler(name); ok && name != ctx.Command {
		sub := ctx
		sub.Command = name
		sub.Args = ctx.Args[1:]
		sub.Index = ctx.Index - 1
		return h.Complete(sub)
	}
	return fileCandidates(ctx.Dir, ctx.Seed, false, e.registry.SuffixFilter(name))
}

// completeAliasNames offers defined alias names.
func completeAliasNames(ctx ArgContext) ([]Candidate, error) {
	if ctx.Engine.aliases == nil {
		return nil, nil
	}
	var cands []Candidate
	for _, name := range ctx.Engine.aliases.Names() {
		cands = append(cands, Candidate{Value: name, Description: "alias"})
	}
	return cands, nil
}

// completeSymbolNames offers interpreter symbols.
func completeSymbolNames(ctx ArgContext) ([]Candidate, error) {
	if ctx.Engine.symbols == nil {
		return nil, nil
	}
	var cands []Candidate
	for _, name := range ctx.Engine.symbols.Symbols() {
		cands = append(cands, Candidate{Value: name, Description: "symbol"})
	}
	return cands, nil
}
