package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"lobby-server/config"
	"lobby-server/internal/model"
	dbPkg "lobby-server/pkg/db"

	"gorm.io/gorm"
)

// 清空顺序：先邀请与好友申请，最后用户
var resetModels = []interface{}{&model.Invite{}, &model.FriendRequest{}, &model.User{}}

func main() {
	// Load configuration (.env + CONFIG_PATH + env overrides)
	cfg := config.LoadConfig()

	gdb, err := dbPkg.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer dbPkg.Close(gdb)

	fmt.Println("Database connected successfully")
	fmt.Printf("Driver: %s, Database: %s\n", cfg.Database.Driver, cfg.Database.Database)

	// Confirm
	fmt.Print("\nWARNING: This operation will CLEAR ALL DATA in tables [invite, friendrequest, user]!\n")
	fmt.Print("Type 'YES' to confirm: ")
	confirm, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	if strings.TrimSpace(confirm) != "YES" {
		fmt.Println("Operation cancelled")
		return
	}

	results, err := clearTables(gdb)
	for _, r := range results {
		fmt.Printf("Cleared table %s: %d rows\n", r.table, r.rows)
	}
	if err != nil {
		log.Fatalf("Reset failed: %v", err)
	}

	fmt.Println("\nDatabase reset completed")
}

type clearResult struct {
	table string
	rows  int64
}

// clearTables 在一个事务中清空全部业务表
func clearTables(gdb *gorm.DB) ([]clearResult, error) {
	var results []clearResult
	err := gdb.Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, m := range resetModels {
			stmt := &gorm.Statement{DB: tx}
			if err := stmt.Parse(m); err != nil {
				return fmt.Errorf("parsing model: %w", err)
			}
			res := all.Delete(m)
			if res.Error != nil {
				return fmt.Errorf("clearing %s: %w", stmt.Table, res.Error)
			}
			results = append(results, clearResult{table: stmt.Table, rows: res.RowsAffected})
		}
		return nil
	})
	return results, err
}
