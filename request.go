package main

import (
	"context"
	"fmt"
	"os"

	"github.com/callebjorkell/rfid-enroll/edge"
	"github.com/callebjorkell/rfid-enroll/link"
	log "github.com/sirupsen/logrus"
)

func requestEnrollment() {
	db := openDB()
	defer db.Close()

	req := edge.Request{
		Username: *requestUser,
		UniqueID: *requestUniqueId,
		Payload:  *requestPayload,
	}
	r := edge.NewRequester(db, *requestWait)
	job, err := r.NewJob(req)
	if err != nil {
		log.Fatal(err)
	}

	r.Connecting(&job)
	channel, err := link.Open(link.Config{PortName: *requestPort, BaudRate: *requestBaud})
	if err != nil {
		r.Fail(&job, "Could not connect to terminal", err)
		log.Error(err)
		return
	}
	defer channel.Close()

	if err := r.Run(context.Background(), channel, req, &job); err != nil {
		log.Error(err)
		fmt.Println(job)
		os.Exit(1)
	}
	fmt.Printf("Card %v enrolled for %v\n", job.UID, job.Username)
}
