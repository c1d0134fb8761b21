// Package batch accumulates the effects produced during one htinter request
// cycle and serializes them as the JSON reply understood by the bridge script.
//
// A [Batch] starts empty, only grows while handlers run, and is emptied by
// [Batch.Flush] once its JSON has been produced. The JSON object lists its
// keys in the order the bridge applies them:
//
//	propage, params, contenu, alasuite, classes, valeurs,
//	créer_batt, stop_batt, écouter_touches, comm_touches, capture_clic
//
// Every key is omitted while empty.
package batch
