// Package schema loads table definitions for DAOs.
//
// Definitions live in .cue or .yaml/.yml files under a loader directory.
// Every file declares tables under a top-level delegate field (default
// "dao"); the field label is the DAO name:
//
//	dao: user: {
//		table: "t_user"
//		name:  "user accounts"
//		db:    "main"
//		column: {
//			id:       "INTEGER NOT NULL"
//			username: "varchar(50) NOT NULL DEFAULT ''"
//		}
//		index: {
//			pk:          {type: "primary", key: "id"}
//			AK_username: {type: "unique", key: ["username"]}
//		}
//		option: ""
//	}
//
// Column and index order follows declaration order in both formats.
package schema
