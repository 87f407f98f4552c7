// Package files resolves intervention log formats from file names and
// opens them as plain byte streams.
//
// CSV snapshots may be stored gzip (.csv.gz) or zstd (.csv.zst) compressed;
// OpenReader and CreateWriter hide the codec from callers:
//
//	r, err := files.OpenReader("archive/interventions_2023.csv.zst")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
package files
