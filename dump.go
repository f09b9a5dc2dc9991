package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

func dumpAll() {
	db := openDB()
	defer db.Close()

	all, err := db.ReadAll()
	if err != nil {
		log.Fatal(err)
	}

	if len(all) > 0 {
		fmt.Println("                                          ID │ Status           │ UID            │ Age   │ User")
		fmt.Println("─────────────────────────────────────────────┼──────────────────┼────────────────┼───────┼────────────────────")
	} else {
		fmt.Println("No enrollment jobs found in the database...")
	}
	for _, j := range all {
		fmt.Printf("%44v │ %-16v │ %-14v │ %5v │ %v\n", j.ID, j.Status, j.UID, since(j.CreatedAt), checkLength(j.Username, 40))
	}
}

func dumpJob(id string) {
	db := openDB()
	defer db.Close()

	j, err := db.ReadJob(id)
	if err != nil {
		log.Error(err)
		return
	}
	fmt.Println(j)
}
