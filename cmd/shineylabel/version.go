package main

import "flag"

type versionCmd struct{ *root }

func (v *versionCmd) FlagSet() *flag.FlagSet { return nil }

func (v *versionCmd) Run() error {
	if err := writef(v.stdout, "%s version %s\n", v.program, version); err != nil {
		return err
	}
	if commit != "" {
		return writef(v.stdout, "commit %s built %s\n", commit, date)
	}
	return nil
}
