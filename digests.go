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

package mobuild

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"shanhu.io/misc/errcode"
)

const digestPrefix = "sha256:"

// buildAction is a structure for creating the digest of the execution of a
// rule.
type buildAction struct {
	Rule     string `json:",omitempty"`
	RuleType string `json:",omitempty"`
	Deps     map[string]string
}

func makeRuleDigest(t, name string, v interface{}) (string, error) {
	buf := new(bytes.Buffer)
	fmt.Fprintln(buf, t)
	fmt.Fprintln(buf, name)
	bs, err := json.Marshal(v)
	if err != nil {
		return "", errcode.Annotate(err, "json marshal")
	}
	buf.Write(bs)
	sum := sha256.Sum256(buf.Bytes())
	return digestPrefix + hex.EncodeToString(sum[:]), nil
}

func fileDigest(f string) (string, error) {
	file, err := os.Open(f)
	if err != nil {
		return "", err
	}
	defer file.Close()

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", err
	}
	return digestPrefix + hex.EncodeToString(h.Sum(nil)), nil
}

// buildNodeDigest returns the digest of a node given the digests of its
// dependencies. Source nodes digest their content.
func buildNodeDigest(
	env *env, n *buildNode, deps map[string]string,
) (string, error) {
	switch n.typ {
	case nodeSrc:
		d, err := fileDigest(env.src(n.name))
		if err != nil {
			return "", errcode.Annotatef(err, "digest source %q", n.name)
		}
		return d, nil
	case nodeRule:
		action := &buildAction{
			Rule:     n.ruleMeta.digest,
			RuleType: n.ruleType,
			Deps:     deps,
		}
		return makeRuleDigest(nodeRule, n.name, action)
	}
	return "", errcode.Internalf("unknown node type %q", n.typ)
}
