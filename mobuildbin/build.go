// Copyright (C) 2022  Shanhu Tech Inc.
//
// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the
// Free Software Foundation, either version 3 of the License, or (at your
// option) any later version.
//
// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU Affero General Public License
// for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package mobuildbin

import (
	"os"
	"strings"

	"shanhu.io/misc/errcode"
	"shanhu.io/mobuild"
	"shanhu.io/text/lexing"
)

func cmdBuild(args []string) error {
	flags := cmdFlags.New()
	config := new(mobuild.Config)
	declareBuildFlags(flags, config)
	args = flags.ParseArgs(args)

	b, err := mobuild.NewBuilder(config)
	if err != nil {
		return err
	}

	if errs := b.Build(args); errs != nil {
		wd, err := os.Getwd()
		if err != nil {
			return errcode.Annotate(err, "get work dir")
		}
		lexing.FprintErrs(os.Stderr, errs, wd)
		return errcode.InvalidArgf("build got %d errors", len(errs))
	}
	return nil
}

func splitList(s string) []string {
	var list []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}

func cmdExe(args []string) error {
	flags := cmdFlags.New()
	config := new(mobuild.Config)
	declareBuildFlags(flags, config)
	exe := new(mobuild.PipeExe)
	flags.StringVar(&exe.Name, "name", "", "name of the program")
	sources := flags.String(
		"sources", ".", "comma separated source directories",
	)
	flags.StringVar(&exe.ExtraCFlags, "cflags", "", "extra c flags")
	flags.StringVar(&exe.ExtraCPPFlags, "cppflags", "", "extra c++ flags")
	flags.StringVar(&exe.ExtraLinkFlags, "ldflags", "", "extra link flags")
	libs := flags.String("libs", "", "comma separated libraries to link")
	flags.ParseArgs(args)

	exe.Sources = splitList(*sources)
	exe.Libraries = splitList(*libs)

	b, err := mobuild.NewBuilder(config)
	if err != nil {
		return err
	}
	return b.Invoke(exe)
}

func cmdClean(args []string) error {
	flags := cmdFlags.New()
	config := new(mobuild.Config)
	declareBuildFlags(flags, config)
	flags.ParseArgs(args)

	b, err := mobuild.NewBuilder(config)
	if err != nil {
		return err
	}
	return b.Clean()
}
