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

	"shanhu.io/misc/flagutil"
	"shanhu.io/mobuild"
)

var cmdFlags = flagutil.NewFactory("mobuild")

func declareBuildFlags(flags *flagutil.FlagSet, c *mobuild.Config) {
	flags.StringVar(
		&c.Root, "root", os.Getenv(mobuild.RootEnv), "sdk root directory",
	)
	flags.StringVar(&c.Src, "src", ".", "source directory")
	flags.StringVar(&c.Out, "out", "build", "output directory")
	flags.StringVar(
		&c.Config, "config", mobuild.ConfigDebug,
		"build configuration, debug or release",
	)
	flags.StringVar(
		&c.DockerImage, "docker", "",
		"docker image to run the toolchain in; runs on host when empty",
	)
}
