// Package minio stores spilled partitions and scoring output in MinIO or any
// other S3-compatible service through the minio-go client.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	spill := minioblob.NewStore(client, "training", "spill/run-42")
//	engine := collection.NewEngine(collection.WithSpillStore(spill))
package minio
