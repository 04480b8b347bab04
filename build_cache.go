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
	"database/sql"
	"encoding/json"
	"errors"

	"shanhu.io/misc/errcode"

	_ "modernc.org/sqlite" // sqlite driver
)

var errNotFoundInCache = errors.New("not found in cache")

// buildCache maps build action digests to their outputs. It is stored in
// a sqlite database.
type buildCache struct {
	db *sql.DB
}

const buildCacheSchema = `create table if not exists built (
	digest text primary key,
	output text not null
)`

func newBuildCache(f string) (*buildCache, error) {
	db, err := sql.Open("sqlite", f)
	if err != nil {
		return nil, errcode.Annotate(err, "open database")
	}
	if _, err := db.Exec(buildCacheSchema); err != nil {
		db.Close()
		return nil, errcode.Annotate(err, "create table")
	}
	return &buildCache{db: db}, nil
}

func (c *buildCache) get(digest string) (*buildOutput, error) {
	row := c.db.QueryRow(`select output from built where digest=?`, digest)
	var bs []byte
	if err := row.Scan(&bs); err != nil {
		if err == sql.ErrNoRows {
			return nil, errNotFoundInCache
		}
		return nil, err
	}
	out := new(buildOutput)
	if err := json.Unmarshal(bs, out); err != nil {
		return nil, errcode.Annotate(err, "unmarshal output")
	}
	return out, nil
}

func (c *buildCache) put(digest string, out *buildOutput) error {
	bs, err := json.Marshal(out)
	if err != nil {
		return errcode.Annotate(err, "marshal output")
	}
	if _, err := c.db.Exec(
		`insert or replace into built (digest, output) values (?, ?)`,
		digest, string(bs),
	); err != nil {
		return errcode.Annotate(err, "save output")
	}
	return nil
}

func (c *buildCache) remove(digest string) error {
	_, err := c.db.Exec(`delete from built where digest=?`, digest)
	return err
}

func (c *buildCache) close() error { return c.db.Close() }
