// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package mrf downloads a remote ZIP or GZIP archive and decodes the single
json document inside it.

A Pipeline run fetches the url into memory, classifies the payload as GZIP
(by content type or signature) or ZIP, extracts the json member and decodes
it under the first text encoding that yields json:

	p := &mrf.Pipeline{
		Fetcher:   &fetch.Fetcher{Progress: fetch.ProgressBar(os.Stderr)},
		Extractor: &archive.Extractor{},
		Log:       log,
	}
	res, err := p.Run(ctx, "https://example.com/2024-01_in-network.json.gz")
	if err != nil {
		return err
	}
	if !res.Decoded {
		return fmt.Errorf("%s: no encoding produced json", res.Member)
	}

Failures are returned as *PipelineError, tagged with the stage that failed.
A run that extracted the member but could not decode it is not an error;
Result.Decoded is false instead.

Batch runs a Pipeline over several urls with a fixed number of workers.
Each run owns its buffers; only the read-only Pipeline is shared.

Validation of decoded documents against a json-schema lives in package
validate.
*/
package mrf
